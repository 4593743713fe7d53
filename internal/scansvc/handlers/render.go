package handlers

import (
	"html/template"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/qrcodesmart/qr-services/internal/qr"
)

// Presentation layer for Render outcomes. The engine hands over a structured
// descriptor; everything below is markup.

var textTmpl = template.Must(template.New("text").Parse(`<html>
  <body style="font-family:Arial;">
    <h2>QR Text</h2>
    <p>{{.Text}}</p>
    <small>Scans: {{.ScanCount}}</small>
    <p>Remaining Scans: {{.RemainingScans}}</p>
  </body>
</html>
`))

var cardTmpl = template.Must(template.New("card").Parse(`<html>
  <head>
    <title>Custom QR Info</title>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
      body { font-family: Arial; background: #f5f5f5; padding: 20px; margin:0; }
      .user-card, .company-card { background: #fff; padding:15px; margin-bottom:15px; border-radius:10px; box-shadow:0 4px 12px rgba(0,0,0,0.1); }
      .info-card { background: #fff; padding:15px 15px 5px 15px; margin-bottom:15px; border-radius:10px; box-shadow:0 4px 12px rgba(0,0,0,0.1); }
      .company-card { border-left: 4px solid #2A43F8; }
      h1 { margin:0 0 10px 0; font-size:24px; color:#2A43F8; }
      h3 { margin-top:-10px; font-size:18px; }
      p { margin:5px 0; font-size:16px; color:#555; word-break: break-word; }
      a { color:#2A43F8; text-decoration:none; }
      a:hover { text-decoration:underline; }
      .social-links { display:flex; gap:15px; flex-wrap:wrap; margin-top:10px; }
    </style>
  </head>
  <body>
    {{if or .Heading .Subheading}}
    <div class="info-card">
      {{if .Heading}}<h1>{{.Heading}}</h1>{{end}}
      {{if .Subheading}}<h3>{{.Subheading}}</h3>{{end}}
    </div>
    {{end}}
    {{if or .GlobalHeading .GlobalDescription}}
    <div class="info-card">
      {{if .GlobalHeading}}<h1>{{.GlobalHeading}}</h1>{{end}}
      {{if .GlobalDescription}}<p>{{.GlobalDescription}}</p>{{end}}
    </div>
    {{end}}
    {{range .Users}}
    <div class="user-card">
      {{if .Name}}<p><strong>Name:</strong> {{.Name}}</p>{{end}}
      {{if .Email}}<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>{{end}}
      {{if .Phone}}<p><strong>Phone:</strong> <a href="tel:{{.Phone}}">{{.Phone}}</a></p>{{end}}
    </div>
    {{end}}
    {{if .ShowCompanyCard}}
    <div class="company-card">
      {{if .Links}}<p><strong>Links:</strong></p>{{range .Links}}<p><a href="{{.}}" target="_blank">{{.}}</a></p>{{end}}{{end}}
      {{if .CompanyEmail}}<p><strong>Email:</strong> <a href="mailto:{{.CompanyEmail}}">{{.CompanyEmail}}</a></p>{{end}}
      {{if .CompanyPhone}}<p><strong>Phone:</strong> <a href="tel:{{.CompanyPhone}}">{{.CompanyPhone}}</a></p>{{end}}
      {{if .CompanyAddress}}<p><strong>Address:</strong> {{.CompanyAddress}}</p>{{end}}
      {{if .Social}}
      <p><strong>Follow Us:</strong></p>
      <div class="social-links">
        {{range .Social}}<a href="{{.URL}}" target="_blank">{{.Name}}</a>{{end}}
      </div>
      {{end}}
    </div>
    {{end}}
  </body>
</html>
`))

var emptyTmpl = template.Must(template.New("empty").Parse(`<h2>No data available</h2>`))

type socialLinkView struct {
	Name string
	URL  string
}

type cardView struct {
	Heading           string
	Subheading        string
	GlobalHeading     string
	GlobalDescription string
	Users             []qr.CardUser
	Links             []string
	CompanyEmail      string
	CompanyPhone      string
	CompanyAddress    string
	Social            []socialLinkView
	ShowCompanyCard   bool
}

// Profile URL prefixes applied to bare social handles on the card page.
var cardSocialPrefix = map[string]string{
	"instagram": "https://instagram.com/",
	"facebook":  "https://facebook.com/",
	"whatsapp":  "https://wa.me/",
	"snapchat":  "https://snapchat.com/add/",
	"twitter":   "https://twitter.com/",
}

// fixed render order for the social row
var cardSocialOrder = []string{"instagram", "facebook", "whatsapp", "snapchat", "twitter"}

func renderPage(w http.ResponseWriter, content *qr.RenderContent) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var err error
	switch content.Kind {
	case qr.RenderText:
		err = textTmpl.Execute(w, content.Text)
	case qr.RenderCard:
		err = cardTmpl.Execute(w, buildCardView(content.Card))
	case qr.RenderEmpty:
		err = emptyTmpl.Execute(w, nil)
	}
	if err != nil {
		log.Errorf("failed to render page: %v", err)
	}
}

func buildCardView(card *qr.CardContent) cardView {
	view := cardView{
		Heading:           card.Heading,
		Subheading:        card.Subheading,
		GlobalHeading:     card.GlobalHeading,
		GlobalDescription: card.GlobalDescription,
		Users:             card.Users,
		Links:             card.Links,
		CompanyEmail:      card.CompanyEmail,
		CompanyPhone:      card.CompanyPhone,
		CompanyAddress:    card.CompanyAddress,
	}

	for _, name := range cardSocialOrder {
		handle := card.Social[name]
		if handle == "" {
			continue
		}
		url := handle
		if !strings.HasPrefix(url, "http") {
			url = cardSocialPrefix[name] + handle
		}
		view.Social = append(view.Social, socialLinkView{Name: name, URL: url})
	}

	view.ShowCompanyCard = len(view.Links) > 0 || view.CompanyEmail != "" ||
		view.CompanyPhone != "" || view.CompanyAddress != "" || len(view.Social) > 0

	return view
}
