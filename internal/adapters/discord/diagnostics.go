package discord

import (
	"context"
	"fmt"

	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// Diagnostics forwards unexpected session failures to a configured channel.
// With no channel configured it only logs.
type Diagnostics struct {
	gateway   ports.ChatGateway
	channelID string
}

// Verify interface compliance at compile time
var _ ports.Diagnostics = (*Diagnostics)(nil)

// NewDiagnostics creates a Diagnostics sink
func NewDiagnostics(gateway ports.ChatGateway, channelID string) *Diagnostics {
	return &Diagnostics{
		gateway:   gateway,
		channelID: channelID,
	}
}

// ReportError logs the failure and, when configured, posts it to the
// diagnostics channel. Forwarding failures are swallowed; diagnostics must
// never take a session down further.
func (d *Diagnostics) ReportError(ctx context.Context, component string, err error) {
	logging.Logger.Error("Unhandled failure", "component", component, "error", err)
	if d.channelID == "" {
		return
	}
	if _, serr := d.gateway.SendMessage(ctx, d.channelID, fmt.Sprintf("Unhandled error in %s: %v", component, err)); serr != nil {
		logging.Logger.Warn("Failed to forward diagnostics", "error", serr)
	}
}
