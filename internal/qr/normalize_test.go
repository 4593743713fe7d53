package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeBareStringContent(t *testing.T) {
	tests := []struct {
		qrType string
		raw    string
		want   Content
	}{
		{TypeURL, "https://example.com", Content{URL: "https://example.com"}},
		{TypeImage, "https://cdn.example.com/a.png", Content{URL: "https://cdn.example.com/a.png"}},
		{TypeFacebook, "somepage", Content{URL: "somepage"}},
		{TypeYoutube, "somechannel", Content{URL: "somechannel"}},
		{TypeInstagram, "myhandle", Content{URL: "myhandle"}},
		{TypeText, "hello there", Content{Text: "hello there"}},
		{TypeEmail, "user@example.com", Content{Text: "user@example.com"}},
		{TypeWhatsapp, "15551234567", Content{Phone: "15551234567", Message: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.qrType, func(t *testing.T) {
			rec := Normalize(&QrRecord{ID: "x", Type: tt.qrType, Content: tt.raw})
			assert.Equal(t, tt.want, rec.Content)
		})
	}
}

func TestNormalizeTypedContent(t *testing.T) {
	rec := Normalize(&QrRecord{
		ID:   "x",
		Type: TypeWhatsapp,
		Content: bson.M{
			"phone":   "15551234567",
			"message": "hi there",
		},
	})
	assert.Equal(t, Content{Phone: "15551234567", Message: "hi there"}, rec.Content)
}

func TestNormalizeBsonDContent(t *testing.T) {
	// when decoding into interface{} the driver yields bson.D, not bson.M
	rec := Normalize(&QrRecord{
		ID:      "x",
		Type:    TypeURL,
		Content: bson.D{{Key: "url", Value: "https://example.com"}},
	})
	assert.Equal(t, "https://example.com", rec.Content.URL)
}

func TestNormalizeCorruptContentDegrades(t *testing.T) {
	// unknown shapes must not fail, they resolve to empty fields
	for _, c := range []any{nil, 42, []any{"a"}, bson.M{"bogus": 1}} {
		rec := Normalize(&QrRecord{ID: "x", Type: TypeURL, Content: c})
		assert.Equal(t, Content{}, rec.Content)
	}
}

func TestNormalizeCustomUsersFiltering(t *testing.T) {
	rec := Normalize(&QrRecord{
		ID:   "x",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{
				bson.M{"name": "Alice", "email": "", "phone": "", "links": bson.A{}},
				bson.M{"name": "  ", "email": "", "phone": "", "links": bson.A{"", "  "}},
				bson.M{"name": "", "email": "", "phone": "", "links": bson.A{"https://a.example"}},
			},
		},
	})

	require.Len(t, rec.Users, 2)
	assert.Equal(t, "Alice", rec.Users[0].Name)
	assert.Equal(t, []string{"https://a.example"}, rec.Users[1].Links)
}

func TestNormalizeCustomUsersFromRecordRoot(t *testing.T) {
	// oldest shape kept the users array on the record root
	rec := Normalize(&QrRecord{
		ID:      "x",
		Type:    TypeCustom,
		Content: bson.M{},
		Users: bson.A{
			bson.M{"name": "Bob"},
		},
	})

	require.Len(t, rec.Users, 1)
	assert.Equal(t, "Bob", rec.Users[0].Name)
}

func TestNormalizeCompanyInfoShapesAgree(t *testing.T) {
	want := CompanyInfo{
		FormName:       "Sales",
		CompanyName:    "Acme",
		CompanyEmail:   "info@acme.example",
		CompanyPhone:   "123",
		CompanyAddress: "1 Acme Way",
	}

	current := &QrRecord{
		ID:   "a",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{bson.M{"name": "Alice"}},
		},
		CompanyInfo: bson.M{
			"formName":       "Sales",
			"companyName":    "Acme",
			"companyEmail":   "info@acme.example",
			"companyPhone":   "123",
			"companyAddress": "1 Acme Way",
		},
	}

	flatLegacy := &QrRecord{
		ID:   "b",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{bson.M{"name": "Alice"}},
		},
		FormName:       "Sales",
		CompanyName:    "Acme",
		CompanyEmail:   "info@acme.example",
		CompanyPhone:   "123",
		CompanyAddress: "1 Acme Way",
	}

	mixed := &QrRecord{
		ID:   "c",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{bson.M{"name": "Alice"}},
		},
		CompanyInfo: bson.M{
			"formName":    "Sales",
			"companyName": "Acme",
		},
		CompanyEmail:   "info@acme.example",
		CompanyPhone:   "123",
		CompanyAddress: "1 Acme Way",
	}

	for _, raw := range []*QrRecord{current, flatLegacy, mixed} {
		assert.Equal(t, want, Normalize(raw).CompanyInfo, "record %s", raw.ID)
	}
}

func TestNormalizeCompanyInfoPrecedence(t *testing.T) {
	rec := Normalize(&QrRecord{
		ID:   "x",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{bson.M{"name": "Alice", "companyName": "FromUser"}},
		},
		CompanyInfo: bson.M{"companyName": "FromInfo"},
		CompanyName: "FromRoot",
	})

	// companyInfo always wins over same-named legacy carriers
	assert.Equal(t, "FromInfo", rec.CompanyInfo.CompanyName)

	rec = Normalize(&QrRecord{
		ID:   "y",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{bson.M{"name": "Alice", "companyName": "FromUser"}},
		},
		CompanyName: "FromRoot",
	})

	// with no companyInfo the first user entry outranks the record root
	assert.Equal(t, "FromUser", rec.CompanyInfo.CompanyName)
}

func TestNormalizeSocialMerge(t *testing.T) {
	rec := Normalize(&QrRecord{
		ID:   "x",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{
				bson.M{
					"name":   "Alice",
					"social": bson.M{"instagram": "old_ig", "twitter": "old_tw"},
				},
			},
		},
		CompanySocial: bson.M{"instagram": "new_ig", "facebook": "new_fb"},
	})

	assert.Equal(t, SocialLinks{
		Instagram: "new_ig", // companySocial wins the collision
		Facebook:  "new_fb",
		Twitter:   "old_tw", // legacy fills the gap
	}, rec.Social)
}

func TestNormalizeSocialFromRecordRoot(t *testing.T) {
	rec := Normalize(&QrRecord{
		ID:      "x",
		Type:    TypeCustom,
		Content: bson.M{"users": bson.A{}},
		Social:  bson.M{"snapchat": "ghost"},
	})
	assert.Equal(t, "ghost", rec.Social.Snapchat)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := &QrRecord{
		ID:   "x",
		Type: TypeCustom,
		Content: bson.M{
			"users": bson.A{
				bson.M{"name": "Alice", "email": "a@example.com", "phone": "1", "links": bson.A{"https://a.example"}},
			},
		},
		CompanyInfo: bson.M{
			"formName":       "Sales",
			"companyName":    "Acme",
			"companyEmail":   "info@acme.example",
			"companyPhone":   "123",
			"companyAddress": "1 Acme Way",
		},
		CompanySocial:     bson.M{"instagram": "acme"},
		GlobalHeading:     "h",
		GlobalDescription: "d",
	}

	first := Normalize(raw)

	// re-express the canonical value as a raw record and normalize again
	again := &QrRecord{
		ID:   first.ID,
		Type: first.Type,
		Content: bson.M{
			"users": bson.A{
				bson.M{
					"name":  first.Users[0].Name,
					"email": first.Users[0].Email,
					"phone": first.Users[0].Phone,
					"links": bson.A{first.Users[0].Links[0]},
				},
			},
		},
		CompanyInfo: bson.M{
			"formName":       first.CompanyInfo.FormName,
			"companyName":    first.CompanyInfo.CompanyName,
			"companyEmail":   first.CompanyInfo.CompanyEmail,
			"companyPhone":   first.CompanyInfo.CompanyPhone,
			"companyAddress": first.CompanyInfo.CompanyAddress,
		},
		CompanySocial: bson.M{
			"instagram": first.Social.Instagram,
			"facebook":  first.Social.Facebook,
			"whatsapp":  first.Social.Whatsapp,
			"snapchat":  first.Social.Snapchat,
			"twitter":   first.Social.Twitter,
		},
		GlobalHeading:     first.GlobalHeading,
		GlobalDescription: first.GlobalDescription,
	}

	assert.Equal(t, first, Normalize(again))
}
