package qr

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Normalize converts a raw stored record of any historical shape into the
// canonical ResolvedRecord. It is pure and total: corrupt or partial data
// degrades to empty fields, it never fails. Rejecting bad content is the
// dispatcher's job.
func Normalize(raw *QrRecord) ResolvedRecord {
	rec := ResolvedRecord{
		ID:                raw.ID,
		Type:              raw.Type,
		GlobalHeading:     raw.GlobalHeading,
		GlobalDescription: raw.GlobalDescription,
		AndroidLink:       raw.AndroidLink,
		IosLink:           raw.IosLink,
		ScanCount:         raw.ScanCount,
		ScanLimit:         raw.ScanLimit,
		Active:            raw.Active,
		OwnerId:           raw.OwnerId,
	}

	content := asDoc(raw.Content)

	if raw.Type == TypeCustom {
		rawUsers := asSlice(content["users"])
		if rawUsers == nil {
			// yet-older records kept the user array on the record root
			rawUsers = asSlice(raw.Users)
		}

		var firstRaw bson.M
		for i, entry := range rawUsers {
			u := asDoc(entry)
			if i == 0 {
				firstRaw = u
			}
			user := CardUser{
				Name:  docString(u, "name"),
				Email: docString(u, "email"),
				Phone: docString(u, "phone"),
				Links: docStrings(u, "links"),
			}
			if user.Empty() {
				continue
			}
			rec.Users = append(rec.Users, user)
		}

		rec.CompanyInfo = mergeCompanyInfo(raw, firstRaw)
		rec.Social = mergeSocial(raw, firstRaw)
		return rec
	}

	if s, ok := asString(raw.Content); ok {
		rec.Content = wrapBareContent(raw.Type, s)
		return rec
	}

	rec.Content = Content{
		URL:     docString(content, "url"),
		Text:    docString(content, "text"),
		Email:   docString(content, "email"),
		Phone:   docString(content, "phone"),
		Message: docString(content, "message"),
	}
	return rec
}

// wrapBareContent lifts a legacy bare-string content into the type-keyed shape.
func wrapBareContent(qrType, s string) Content {
	switch qrType {
	case TypeURL, TypeImage, TypeFacebook, TypeYoutube, TypeInstagram:
		return Content{URL: s}
	case TypeWhatsapp:
		return Content{Phone: s, Message: ""}
	default:
		// text, email and anything unknown are carried as text
		return Content{Text: s}
	}
}

// mergeCompanyInfo resolves company metadata across the three historical
// carriers: the companyInfo document, the first raw user entry, and flat
// legacy fields on the record root. A field set in companyInfo always wins.
func mergeCompanyInfo(raw *QrRecord, firstUser bson.M) CompanyInfo {
	info := asDoc(raw.CompanyInfo)

	pick := func(key, legacy string) string {
		if v := docString(info, key); v != "" {
			return v
		}
		if v := docString(firstUser, key); v != "" {
			return v
		}
		return legacy
	}

	return CompanyInfo{
		FormName:       pick("formName", raw.FormName),
		CompanyName:    pick("companyName", raw.CompanyName),
		CompanyEmail:   pick("companyEmail", raw.CompanyEmail),
		CompanyPhone:   pick("companyPhone", raw.CompanyPhone),
		CompanyAddress: pick("companyAddress", raw.CompanyAddress),
	}
}

// mergeSocial overlays companySocial on the legacy social document, which
// lived either on the first user entry or on the record root.
func mergeSocial(raw *QrRecord, firstUser bson.M) SocialLinks {
	current := asDoc(raw.CompanySocial)
	old := asDoc(firstUser["social"])
	if len(old) == 0 {
		old = asDoc(raw.Social)
	}

	pick := func(key string) string {
		if v := docString(current, key); v != "" {
			return v
		}
		return docString(old, key)
	}

	return SocialLinks{
		Instagram: pick("instagram"),
		Facebook:  pick("facebook"),
		Whatsapp:  pick("whatsapp"),
		Snapchat:  pick("snapchat"),
		Twitter:   pick("twitter"),
	}
}

// asDoc coerces the document shapes the driver can hand back (bson.M, bson.D,
// plain maps from tests or JSON) into one map form. Anything else yields nil.
func asDoc(v any) bson.M {
	switch d := v.(type) {
	case bson.M:
		return d
	case bson.D:
		m := make(bson.M, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m
	case map[string]any:
		return bson.M(d)
	case map[string]string:
		m := make(bson.M, len(d))
		for k, val := range d {
			m[k] = val
		}
		return m
	default:
		return nil
	}
}

func asSlice(v any) []any {
	switch s := v.(type) {
	case bson.A:
		return []any(s)
	case []any:
		return s
	default:
		return nil
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func docString(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func docStrings(m bson.M, key string) []string {
	raw := asSlice(m[key])
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func trimmed(s string) bool {
	return strings.TrimSpace(s) != ""
}
