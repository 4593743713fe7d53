package qr

import (
	"fmt"
	"net/url"
	"strings"
)

// RequestContext carries the request attributes dispatch depends on.
type RequestContext struct {
	UserAgent string
}

// Canonical profile prefixes for bare social handles.
var socialPrefix = map[string]string{
	TypeFacebook:  "https://facebook.com/",
	TypeYoutube:   "https://youtube.com/",
	TypeInstagram: "https://instagram.com/",
}

// Dispatch maps a normalized record to its resolution outcome. Pure, no I/O.
func Dispatch(rec *ResolvedRecord, reqCtx RequestContext) Outcome {
	switch rec.Type {
	case TypeURL, TypeImage:
		if rec.Content.URL == "" {
			return Rejected(ReasonInvalidContent)
		}
		return Redirect(rec.Content.URL)

	case TypeFacebook, TypeYoutube, TypeInstagram:
		target := rec.Content.URL
		if target == "" {
			return Rejected(ReasonInvalidContent)
		}
		if strings.HasPrefix(target, "http") {
			return Redirect(target)
		}
		// bare handle
		return Redirect(socialPrefix[rec.Type] + target)

	case TypeWhatsapp:
		if rec.Content.Phone == "" {
			return Rejected(ReasonInvalidContent)
		}
		return Redirect(fmt.Sprintf("https://wa.me/%s?text=%s",
			rec.Content.Phone, url.QueryEscape(rec.Content.Message)))

	case TypeEmail:
		address := rec.Content.Email
		if address == "" {
			address = rec.Content.Text
		}
		if address == "" {
			return Rejected(ReasonInvalidContent)
		}
		return Redirect("mailto:" + address)

	case TypeApp:
		ua := strings.ToLower(reqCtx.UserAgent)
		if strings.Contains(ua, "iphone") && rec.IosLink != "" {
			return Redirect(rec.IosLink)
		}
		if strings.Contains(ua, "android") && rec.AndroidLink != "" {
			return Redirect(rec.AndroidLink)
		}
		// no platform-neutral fallback
		return Rejected(ReasonInvalidContent)

	case TypeText:
		return RenderOutcome(RenderContent{
			Kind: RenderText,
			Text: &TextContent{
				Text:           rec.Content.Text,
				ScanCount:      rec.ScanCount,
				RemainingScans: EffectiveLimit(rec.ScanLimit) - rec.ScanCount,
			},
		})

	case TypeCustom:
		return dispatchCustom(rec)

	default:
		return Rejected(ReasonUnknownType)
	}
}

func dispatchCustom(rec *ResolvedRecord) Outcome {
	// aggregate every user's links, dropping blanks but keeping duplicates
	var links []string
	for _, u := range rec.Users {
		for _, l := range u.Links {
			if trimmed(l) {
				links = append(links, l)
			}
		}
	}

	social := map[string]string{}
	for key, value := range map[string]string{
		"instagram": rec.Social.Instagram,
		"facebook":  rec.Social.Facebook,
		"whatsapp":  rec.Social.Whatsapp,
		"snapchat":  rec.Social.Snapchat,
		"twitter":   rec.Social.Twitter,
	} {
		if value != "" {
			social[key] = value
		}
	}

	// An empty card is valid content, distinct from an error.
	if len(rec.Users) == 0 && rec.CompanyInfo.Empty() && len(social) == 0 && len(links) == 0 {
		return RenderOutcome(RenderContent{Kind: RenderEmpty})
	}

	return RenderOutcome(RenderContent{
		Kind: RenderCard,
		Card: &CardContent{
			Heading:           rec.CompanyInfo.CompanyName,
			Subheading:        rec.CompanyInfo.FormName,
			GlobalHeading:     rec.GlobalHeading,
			GlobalDescription: rec.GlobalDescription,
			Users:             rec.Users,
			Links:             links,
			Social:            social,
			CompanyEmail:      rec.CompanyInfo.CompanyEmail,
			CompanyPhone:      rec.CompanyInfo.CompanyPhone,
			CompanyAddress:    rec.CompanyInfo.CompanyAddress,
		},
	})
}
