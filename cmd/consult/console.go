package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Rrens/medical-agent/internal/call"
	"github.com/Rrens/medical-agent/internal/domain"
)

// console routes typed lines to the call controller
type console struct {
	controller *call.Controller
	dictation  *call.Dictation
	engine     *lineEngine
	session    *domain.Session
	out        io.Writer
}

// handle processes one input line. done reports that the consultation was saved.
func (c *console) handle(ctx context.Context, line string) (done bool, err error) {
	switch line {
	case "/end":
		fmt.Fprintln(c.out, "Preparing your consultation report...")
		completed, err := c.controller.EndCall(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to save consultation: %w", err)
		}
		if completed.Summary != nil {
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, *completed.Summary)
		}
		return true, nil

	case "/start":
		if err := c.controller.StartCall(ctx, c.session); err != nil {
			fmt.Fprintf(c.out, "cannot start call: %v\n", err)
		}

	case "/dictate":
		on, err := c.dictation.Toggle()
		if err != nil {
			fmt.Fprintf(c.out, "dictation unavailable: %v\n", err)
			return false, nil
		}
		fmt.Fprintf(c.out, "dictation %s\n", map[bool]string{true: "on", false: "off"}[on])

	case "/send":
		if err := c.controller.SendInput(ctx); err != nil {
			fmt.Fprintf(c.out, "not sent: %v\n", err)
		}

	default:
		if c.dictation.Active() {
			c.engine.hear(line)
			return false, nil
		}
		if err := c.controller.Send(ctx, line); err != nil {
			fmt.Fprintf(c.out, "not sent: %v\n", err)
		}
	}
	return false, nil
}
