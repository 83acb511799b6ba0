package dialogue

import (
	"fmt"
	"strings"

	"campus-chatbot/pkg/metrics"
)

type Transition string

const (
	TransitionNone     Transition = ""
	TransitionEnter    Transition = "enter"
	TransitionAdvance  Transition = "advance"
	TransitionComplete Transition = "complete"
	TransitionReprompt Transition = "reprompt"
	TransitionExit     Transition = "exit"
	TransitionAbandon  Transition = "abandon"
)

// Controller drives the IDLE / IN_FLOW state machine held in a Context.
// It never fails: a context pointing at a missing flow or step is reset to IDLE.
type Controller struct {
	flows *FlowTable
}

func NewController(flows *FlowTable) *Controller {
	return &Controller{flows: flows}
}

func (c *Controller) HasFlow(tag string) bool {
	return c.flows.Has(tag)
}

// Enter starts the flow registered for tag. ok is false when tag has no flow.
func (c *Controller) Enter(ctx *Context, tag string) (response string, ok bool) {
	flow, found := c.flows.Get(tag)
	if !found {
		return "", false
	}

	ctx.CurrentTopic = tag
	ctx.ExpectingFollowup = true
	ctx.FollowupStep = 0
	ctx.LastIntent = tag
	observe(TransitionEnter)

	first := flow.Steps[0]
	return fmt.Sprintf("%s\n\n%s\n(Opsi: %s)", flow.DefaultResponse, first.Prompt, strings.Join(first.Options, ", ")), true
}

// Continue handles a reply while IN_FLOW. input must already be normalized.
// ok is false when the context no longer points at a valid step.
func (c *Controller) Continue(ctx *Context, input string) (response string, transition Transition, ok bool) {
	flow, found := c.flows.Get(ctx.CurrentTopic)
	if !found || ctx.FollowupStep < 0 || ctx.FollowupStep >= len(flow.Steps) {
		ctx.leaveFlow()
		observe(TransitionAbandon)
		return "", TransitionAbandon, false
	}

	step := flow.Steps[ctx.FollowupStep]
	for _, option := range step.Options {
		if !strings.Contains(input, option) {
			continue
		}

		response = step.OptionResponses[option]
		ctx.FollowupStep++

		if ctx.FollowupStep < len(flow.Steps) {
			observe(TransitionAdvance)
			return response + "\n\n" + flow.Steps[ctx.FollowupStep].Prompt, TransitionAdvance, true
		}

		ctx.leaveFlow()
		observe(TransitionComplete)
		return response + "\n\n" + FlowClosing, TransitionComplete, true
	}

	observe(TransitionReprompt)
	return fmt.Sprintf("%s\n\nOpsi: %s", step.Prompt, strings.Join(step.Options, ", ")), TransitionReprompt, true
}

func (c *Controller) Exit(ctx *Context) string {
	ctx.leaveFlow()
	observe(TransitionExit)
	return ExitAcknowledgement
}

func observe(t Transition) {
	metrics.IncFlowTransition(string(t))
}
