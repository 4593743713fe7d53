package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRedirectTypes(t *testing.T) {
	tests := []struct {
		name string
		rec  ResolvedRecord
		ua   string
		want Outcome
	}{
		{
			name: "url",
			rec:  ResolvedRecord{Type: TypeURL, Content: Content{URL: "https://example.com"}},
			want: Redirect("https://example.com"),
		},
		{
			name: "image",
			rec:  ResolvedRecord{Type: TypeImage, Content: Content{URL: "https://cdn.example.com/a.png"}},
			want: Redirect("https://cdn.example.com/a.png"),
		},
		{
			name: "url empty content",
			rec:  ResolvedRecord{Type: TypeURL},
			want: Rejected(ReasonInvalidContent),
		},
		{
			name: "instagram bare handle",
			rec:  ResolvedRecord{Type: TypeInstagram, Content: Content{URL: "myhandle"}},
			want: Redirect("https://instagram.com/myhandle"),
		},
		{
			name: "instagram full url unchanged",
			rec:  ResolvedRecord{Type: TypeInstagram, Content: Content{URL: "https://instagram.com/myhandle"}},
			want: Redirect("https://instagram.com/myhandle"),
		},
		{
			name: "facebook bare handle",
			rec:  ResolvedRecord{Type: TypeFacebook, Content: Content{URL: "somepage"}},
			want: Redirect("https://facebook.com/somepage"),
		},
		{
			name: "youtube bare handle",
			rec:  ResolvedRecord{Type: TypeYoutube, Content: Content{URL: "somechannel"}},
			want: Redirect("https://youtube.com/somechannel"),
		},
		{
			name: "social empty handle",
			rec:  ResolvedRecord{Type: TypeInstagram},
			want: Rejected(ReasonInvalidContent),
		},
		{
			name: "whatsapp empty message",
			rec:  ResolvedRecord{Type: TypeWhatsapp, Content: Content{Phone: "15551234567"}},
			want: Redirect("https://wa.me/15551234567?text="),
		},
		{
			name: "whatsapp with message",
			rec:  ResolvedRecord{Type: TypeWhatsapp, Content: Content{Phone: "15551234567", Message: "hello"}},
			want: Redirect("https://wa.me/15551234567?text=hello"),
		},
		{
			name: "whatsapp missing phone",
			rec:  ResolvedRecord{Type: TypeWhatsapp, Content: Content{Message: "hello"}},
			want: Rejected(ReasonInvalidContent),
		},
		{
			name: "email from email field",
			rec:  ResolvedRecord{Type: TypeEmail, Content: Content{Email: "a@example.com"}},
			want: Redirect("mailto:a@example.com"),
		},
		{
			name: "email falls back to text field",
			rec:  ResolvedRecord{Type: TypeEmail, Content: Content{Text: "b@example.com"}},
			want: Redirect("mailto:b@example.com"),
		},
		{
			name: "app iphone",
			rec:  ResolvedRecord{Type: TypeApp, IosLink: "https://apps.example/ios", AndroidLink: "https://apps.example/android"},
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)",
			want: Redirect("https://apps.example/ios"),
		},
		{
			name: "app android",
			rec:  ResolvedRecord{Type: TypeApp, IosLink: "https://apps.example/ios", AndroidLink: "https://apps.example/android"},
			ua:   "Mozilla/5.0 (Linux; Android 14)",
			want: Redirect("https://apps.example/android"),
		},
		{
			name: "app desktop has no fallback",
			rec:  ResolvedRecord{Type: TypeApp, IosLink: "https://apps.example/ios", AndroidLink: "https://apps.example/android"},
			ua:   "Mozilla/5.0 (X11; Linux x86_64)",
			want: Rejected(ReasonInvalidContent),
		},
		{
			name: "app iphone without ios link",
			rec:  ResolvedRecord{Type: TypeApp, AndroidLink: "https://apps.example/android"},
			ua:   "iPhone",
			want: Rejected(ReasonInvalidContent),
		},
		{
			name: "unknown type",
			rec:  ResolvedRecord{Type: "vcard"},
			want: Rejected(ReasonUnknownType),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dispatch(&tt.rec, RequestContext{UserAgent: tt.ua})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatchText(t *testing.T) {
	rec := ResolvedRecord{
		Type:      TypeText,
		Content:   Content{Text: "hello"},
		ScanCount: 42,
		ScanLimit: limitPtr(100),
	}

	got := Dispatch(&rec, RequestContext{})
	require.Equal(t, KindRender, got.Kind)
	require.Equal(t, RenderText, got.Render.Kind)
	assert.Equal(t, "hello", got.Render.Text.Text)
	assert.Equal(t, int64(42), got.Render.Text.ScanCount)
	assert.Equal(t, int64(58), got.Render.Text.RemainingScans)
}

func TestDispatchCustomCard(t *testing.T) {
	rec := ResolvedRecord{
		Type: TypeCustom,
		Users: []CardUser{
			{Name: "Alice", Links: []string{"https://a.example", "", "https://b.example"}},
			{Name: "Bob", Links: []string{"https://a.example"}},
		},
		CompanyInfo: CompanyInfo{
			CompanyName:  "Acme",
			FormName:     "Sales",
			CompanyEmail: "info@acme.example",
		},
		Social:        SocialLinks{Instagram: "acme", Facebook: ""},
		GlobalHeading: "Welcome",
	}

	got := Dispatch(&rec, RequestContext{})
	require.Equal(t, KindRender, got.Kind)
	require.Equal(t, RenderCard, got.Render.Kind)

	card := got.Render.Card
	assert.Equal(t, "Acme", card.Heading)
	assert.Equal(t, "Sales", card.Subheading)
	assert.Equal(t, "Welcome", card.GlobalHeading)
	// blanks dropped, real duplicates kept in order
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://a.example"}, card.Links)
	// only non-empty social keys appear
	assert.Equal(t, map[string]string{"instagram": "acme"}, card.Social)
	assert.Len(t, card.Users, 2)
}

func TestDispatchCustomEmptyState(t *testing.T) {
	rec := ResolvedRecord{Type: TypeCustom}

	got := Dispatch(&rec, RequestContext{})
	require.Equal(t, KindRender, got.Kind)
	assert.Equal(t, RenderEmpty, got.Render.Kind)
	assert.Nil(t, got.Render.Card)
}

func TestDispatchCustomSocialOnly(t *testing.T) {
	rec := ResolvedRecord{
		Type:   TypeCustom,
		Social: SocialLinks{Twitter: "acme"},
	}

	got := Dispatch(&rec, RequestContext{})
	require.Equal(t, KindRender, got.Kind)
	assert.Equal(t, RenderCard, got.Render.Kind)
	assert.Equal(t, map[string]string{"twitter": "acme"}, got.Render.Card.Social)
}
