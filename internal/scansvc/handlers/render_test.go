package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrcodesmart/qr-services/internal/qr"
)

func TestBuildCardViewSocialOrderAndPrefix(t *testing.T) {
	view := buildCardView(&qr.CardContent{
		Social: map[string]string{
			"twitter":   "qrcodesmart",
			"instagram": "qrcodesmart",
			"facebook":  "https://facebook.com/qrcodesmart",
		},
	})

	assert.Equal(t, []socialLinkView{
		{Name: "instagram", URL: "https://instagram.com/qrcodesmart"},
		{Name: "facebook", URL: "https://facebook.com/qrcodesmart"},
		{Name: "twitter", URL: "https://twitter.com/qrcodesmart"},
	}, view.Social)
	assert.True(t, view.ShowCompanyCard)
}

func TestBuildCardViewCompanyCardVisibility(t *testing.T) {
	view := buildCardView(&qr.CardContent{
		Users: []qr.CardUser{{Name: "Abel"}},
	})
	assert.False(t, view.ShowCompanyCard)

	view = buildCardView(&qr.CardContent{CompanyPhone: "0911223344"})
	assert.True(t, view.ShowCompanyCard)

	view = buildCardView(&qr.CardContent{Links: []string{"https://example.com"}})
	assert.True(t, view.ShowCompanyCard)
}

func TestRenderPageText(t *testing.T) {
	w := httptest.NewRecorder()
	renderPage(w, &qr.RenderContent{
		Kind: qr.RenderText,
		Text: &qr.TextContent{Text: "hello world", ScanCount: 7, RemainingScans: 293},
	})

	body := w.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "<p>hello world</p>")
	assert.Contains(t, body, "Scans: 7")
	assert.Contains(t, body, "Remaining Scans: 293")
}

func TestRenderPageTextEscapesMarkup(t *testing.T) {
	w := httptest.NewRecorder()
	renderPage(w, &qr.RenderContent{
		Kind: qr.RenderText,
		Text: &qr.TextContent{Text: "<script>alert(1)</script>"},
	})

	body := w.Body.String()
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRenderPageCard(t *testing.T) {
	w := httptest.NewRecorder()
	renderPage(w, &qr.RenderContent{
		Kind: qr.RenderCard,
		Card: &qr.CardContent{
			Heading: "QR Code Smart",
			Users:   []qr.CardUser{{Name: "Abel", Email: "abel@example.com"}},
			Social:  map[string]string{"instagram": "qrcodesmart"},
		},
	})

	body := w.Body.String()
	assert.Contains(t, body, "<h1>QR Code Smart</h1>")
	assert.Contains(t, body, "mailto:abel@example.com")
	assert.Contains(t, body, `href="https://instagram.com/qrcodesmart"`)
}

func TestRenderPageEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	renderPage(w, &qr.RenderContent{Kind: qr.RenderEmpty})
	assert.Equal(t, "<h2>No data available</h2>", w.Body.String())
}
