package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/example/rinkwatch/internal/session"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Console renders notifications as tables on standard output. It is also the
// fallback target for every other delivery channel.
type Console struct {
	Out io.Writer
}

func (c *Console) Notify(ctx context.Context, sessions []session.Session, reopenedCount int) error {
	reopened := sessions[:reopenedCount]
	fresh := sessions[reopenedCount:]

	fmt.Fprintln(c.Out, "SESSIONS AVAILABLE!")
	if len(reopened) > 0 {
		fmt.Fprintf(c.Out, "%d previously sold-out session(s) now open\n", len(reopened))
		c.renderGroup("REOPENED (were sold out)", reopened)
	}
	if len(fresh) > 0 {
		c.renderGroup("NEW SESSIONS", fresh)
	}
	return nil
}

func (c *Console) renderGroup(title string, sessions []session.Session) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(c.Out)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Session", "When", "Site", "URL"})
	for i, s := range sessions {
		t.AppendRow(table.Row{i + 1, s.Type, s.DateTime, s.Site, s.URL})
	}
	t.Render()
}

// RenderAll prints the full table of sessions observed this cycle, booked
// and unchanged ones included, regardless of notification eligibility.
func RenderAll(out io.Writer, sessions []session.Session) {
	if len(sessions) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.SetTitle("ALL MATCHING SESSIONS")
	t.AppendHeader(table.Row{"Session", "When", "Status", "Spots"})
	for _, s := range sessions {
		status := string(s.Status)
		if s.Booked {
			status += " (BOOKED)"
		}
		t.AppendRow(table.Row{s.Type, s.DateTime, status, s.QtyInStock})
	}
	t.Render()
}
