package ws

import (
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/khnpedu/tension-meeting/filter"
	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/types"
)

// CompileFilter compiles a room-list filter expression against the filter Env.
// An empty expression means no filter.
func CompileFilter(expression string) (*vm.Program, error) {
	if expression == "" {
		return nil, nil
	}
	return expr.Compile(expression, expr.Env(filter.Env{}))
}

// FilterRooms applies the client's filter program to the room-list view.
// Rooms for which the expression errors or yields non-true are excluded.
func (c *Client) FilterRooms(rooms []*types.Room) []*types.Room {
	if c.filterProg == nil {
		return rooms
	}
	out := make([]*types.Room, 0, len(rooms))
	for _, r := range rooms {
		env := filter.Env{
			Room: filter.Room{
				Id:           r.Id,
				Name:         r.Name,
				TeamCount:    r.TeamCount,
				Duration:     r.Duration,
				IsStarted:    r.IsStarted,
				Participants: len(r.Participants),
			},
		}
		res, err := expr.Run(c.filterProg, env)
		if err != nil {
			globals.AppLogger.Error("could not run filter", "error", err)
			continue
		}
		if bRes, ok := res.(bool); ok && bRes {
			out = append(out, r)
		}
	}
	return out
}
