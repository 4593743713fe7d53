package qr

// OutcomeKind tags what the resolution produced.
type OutcomeKind string

const (
	KindRedirect OutcomeKind = "redirect"
	KindRender   OutcomeKind = "render"
	KindRejected OutcomeKind = "rejected"
)

// Reason codes for rejected resolutions.
type Reason string

const (
	ReasonNotFound        Reason = "not_found"
	ReasonDisabledOrLimit Reason = "disabled_or_limit"
	ReasonInvalidContent  Reason = "invalid_content"
	ReasonUnknownType     Reason = "unknown_type"
)

// RenderKind tags the structured content handed to the presentation layer.
type RenderKind string

const (
	RenderText  RenderKind = "text"
	RenderCard  RenderKind = "card"
	RenderEmpty RenderKind = "empty"
)

// TextContent is the render payload of a text record.
type TextContent struct {
	Text           string `json:"text"`
	ScanCount      int64  `json:"scanCount"`
	RemainingScans int64  `json:"remainingScans"`
}

// CardContent is the render payload of a custom business-card record.
type CardContent struct {
	Heading           string            `json:"heading"`    // company name
	Subheading        string            `json:"subheading"` // form name
	GlobalHeading     string            `json:"globalHeading"`
	GlobalDescription string            `json:"globalDescription"`
	Users             []CardUser        `json:"users"`
	Links             []string          `json:"links"` // all users' links, blanks dropped, duplicates kept
	Social            map[string]string `json:"social"`
	CompanyEmail      string            `json:"companyEmail"`
	CompanyPhone      string            `json:"companyPhone"`
	CompanyAddress    string            `json:"companyAddress"`
}

type RenderContent struct {
	Kind RenderKind   `json:"kind"`
	Text *TextContent `json:"text,omitempty"`
	Card *CardContent `json:"card,omitempty"`
}

// Outcome is the result of resolving a scan: a redirect target, structured
// content for rendering, or a typed rejection. Transient store failures are
// Go errors, never outcomes.
type Outcome struct {
	Kind        OutcomeKind    `json:"kind"`
	RedirectURL string         `json:"redirectUrl,omitempty"`
	Render      *RenderContent `json:"render,omitempty"`
	Reason      Reason         `json:"reason,omitempty"`
}

func Redirect(url string) Outcome {
	return Outcome{Kind: KindRedirect, RedirectURL: url}
}

func Rejected(reason Reason) Outcome {
	return Outcome{Kind: KindRejected, Reason: reason}
}

func RenderOutcome(content RenderContent) Outcome {
	return Outcome{Kind: KindRender, Render: &content}
}
