// Package prompts builds the text sent to the step-executor backend: the
// planning prompt that asks for a structured plan, and the per-step prompt
// that carries the full plan state plus the output syntax contract.
package prompts

import (
	"fmt"

	"github.com/avendel/stepflow/internal/types"
)

// Planning returns the prompt that asks the model to break a request into
// a dependency-ordered plan
func Planning(request string) string {
	return fmt.Sprintf(`You are a task planner. Break the request below into discrete, ordered steps.

## Request
%s

## Response Format
Respond with ONLY a JSON object, no other text:

{
  "steps": [
    {"description": "What to do", "dependencies": []},
    {"description": "A later step", "dependencies": [1]}
  ],
  "description": "One-line plan summary",
  "estimatedTime": "20 minutes"
}

## Rules
- Each step is one atomic unit of work with a clear description
- "dependencies" lists the 1-based numbers of steps that must finish first
- Dependencies only ever point to earlier steps
- Keep the plan as short as the request allows`, request)
}

// Step returns the prompt for executing one step. It includes the static
// instructions, the workspace context summary, the serialized plan state,
// and the step description.
func Step(contextSummary, planJSON, description string) string {
	context := contextSummary
	if context == "" {
		context = "(none)"
	}

	return fmt.Sprintf(`You are executing one step of a task plan.

## Workspace Context
%s

## Plan State
%s

## Current Step
%s

## Output Syntax
To run a shell command, emit a block:
$$$ COMMAND
<shell text>
$$$ END

To create or overwrite a file, emit a fenced block whose first line names the path:
`+"```"+`
File: relative/path
<file content verbatim>
`+"```"+`

## Rules
- Carry out ONLY the current step
- A step with no commands or files is fine; describe what you verified
- Do not repeat work already marked completed in the plan state
- If the step cannot be done, say why plainly`, context, planJSON, description)
}

// SerializePlan renders the plan as wire JSON for inclusion in a step prompt
func SerializePlan(plan *types.Plan) (string, error) {
	return plan.MarshalWire()
}
