// Package policy decides whether a user may act on a session.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Actions evaluated against the session policy.
const (
	ActionRead   = "session.read"
	ActionUpdate = "session.update"
	ActionDelete = "session.delete"
)

// AccessInput is the input document for a policy evaluation.
type AccessInput struct {
	Action  string `json:"action"`
	UserID  string `json:"user_id"`
	OwnerID string `json:"owner_id"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.session_policy.decision"),
		rego.Module("session_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Allow evaluates the session policy for one access request.
// An evaluation error or any decision other than "allow" denies.
func (e *Engine) Allow(ctx context.Context, input AccessInput) (bool, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}

	decision, _ := results[0].Expressions[0].Value.(string)
	return decision == "allow", nil
}

// DefaultPolicy is the default session access policy: only the owning
// user may read, update or delete a session.
const DefaultPolicy = `
package session_policy

default decision = "deny"

decision = "allow" {
	input.user_id == input.owner_id
}
`
