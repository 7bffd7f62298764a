package negotiation

// QualityPolicy decides what happens to an Accept entry whose q is not a
// number.
type QualityPolicy string

const (
	// QualityReject fails negotiation with ErrInvalidQualityValue.
	QualityReject QualityPolicy = "reject"
	// QualityClamp keeps the entry with quality 1.0.
	QualityClamp QualityPolicy = "clamp"
)

// Config holds the override parameter names and defaults used by the default
// negotiator. An empty parameter name disables that override.
type Config struct {
	FormatParam   string
	AcceptParam   string
	DefaultAccept string
	QualityPolicy QualityPolicy
}

func DefaultConfig() Config {
	return Config{
		FormatParam:   "format",
		AcceptParam:   "accept",
		DefaultAccept: "*/*",
		QualityPolicy: QualityReject,
	}
}
