package domain

import "strings"

// Marker is the prefix the extraction model is instructed to put in front of
// every action item, one per line. Lines without it are discarded.
const Marker = "TODO:"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Ticket is a single extracted action item. Tickets only live for the
// duration of one run; there is no persistence.
type Ticket struct {
	Text     string
	Assignee string
	Status   Status
}

// Line renders the ticket back in the wire format the extractor emits.
func (t Ticket) Line() string {
	if t.Assignee == "" {
		return Marker + " " + t.Text
	}
	return Marker + " " + t.Text + " - " + t.Assignee
}

// ParseTickets splits raw extractor output into tickets. Only lines that
// begin with the marker prefix are kept; everything the model adds around
// them (prose, fences, blank lines) is dropped. The expected line shape is
// "TODO: <task> - <assignee>", the assignee segment being optional.
func ParseTickets(raw string) []Ticket {
	var tickets []Ticket

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, Marker) {
			continue
		}

		body := strings.TrimSpace(strings.TrimPrefix(line, Marker))
		if body == "" {
			continue
		}

		text, assignee := body, ""
		if idx := strings.LastIndex(body, " - "); idx > 0 {
			text = strings.TrimSpace(body[:idx])
			assignee = strings.TrimSpace(body[idx+3:])
		}
		if text == "" {
			continue
		}

		tickets = append(tickets, Ticket{
			Text:     text,
			Assignee: assignee,
			Status:   StatusPending,
		})
	}

	return tickets
}

// Summary returns the accepted tickets in their original order.
func Summary(tickets []Ticket) []Ticket {
	var accepted []Ticket
	for _, t := range tickets {
		if t.Status == StatusAccepted {
			accepted = append(accepted, t)
		}
	}
	return accepted
}
