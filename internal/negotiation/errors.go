package negotiation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

var (
	// ErrNoRendererForFormat means a format suffix or override named a format
	// no renderer declares.
	ErrNoRendererForFormat = errors.New("no renderer for format")

	// ErrInvalidQualityValue means an Accept entry carried a non-numeric q.
	ErrInvalidQualityValue = mediatype.ErrInvalidQuality
)

// NotAcceptableError means no renderer satisfies the client's Accept list.
// Available holds every renderer that took part in negotiation.
type NotAcceptableError struct {
	Available []Renderer
}

func (e *NotAcceptableError) Error() string {
	return fmt.Sprintf("not acceptable, available: %s", strings.Join(AvailableMediaTypes(e.Available), ", "))
}

// AvailableMediaTypes lists the declared media types of renderers in order.
func AvailableMediaTypes(renderers []Renderer) []string {
	types := make([]string, 0, len(renderers))
	for _, r := range renderers {
		types = append(types, r.MediaType())
	}
	return types
}
