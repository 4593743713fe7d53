package qr

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record types issued by the service.
const (
	TypeURL       = "url"
	TypeText      = "text"
	TypeEmail     = "email"
	TypeWhatsapp  = "whatsapp"
	TypeFacebook  = "facebook"
	TypeYoutube   = "youtube"
	TypeInstagram = "instagram"
	TypeImage     = "image"
	TypeApp       = "app"
	TypeCustom    = "custom"
)

// QrRecord is the persisted document, one per issued code. The schema went
// through several incompatible shapes over time, so Content, CompanyInfo,
// CompanySocial, Users and Social are kept loosely typed and only Normalize
// turns them into a canonical ResolvedRecord.
type QrRecord struct {
	ID   string `bson:"_id" json:"id"`
	Type string `bson:"type" json:"type"`

	// Content is a bare string on the oldest records, a document keyed by
	// type-specific fields on current ones.
	Content any `bson:"content" json:"content"`

	GlobalHeading     string `bson:"globalHeading,omitempty" json:"globalHeading,omitempty"`
	GlobalDescription string `bson:"globalDescription,omitempty" json:"globalDescription,omitempty"`

	AndroidLink string `bson:"androidLink,omitempty" json:"androidLink,omitempty"`
	IosLink     string `bson:"iosLink,omitempty" json:"iosLink,omitempty"`
	Logo        string `bson:"logo,omitempty" json:"logo,omitempty"`

	// Current shape: company metadata as own documents.
	CompanyInfo   any `bson:"companyInfo,omitempty" json:"companyInfo,omitempty"`
	CompanySocial any `bson:"companySocial,omitempty" json:"companySocial,omitempty"`

	// Oldest shape: card data flattened onto the record root.
	Users          any    `bson:"users,omitempty" json:"users,omitempty"`
	Social         any    `bson:"social,omitempty" json:"social,omitempty"`
	FormName       string `bson:"formName,omitempty" json:"formName,omitempty"`
	CompanyName    string `bson:"companyName,omitempty" json:"companyName,omitempty"`
	CompanyEmail   string `bson:"companyEmail,omitempty" json:"companyEmail,omitempty"`
	CompanyPhone   string `bson:"companyPhone,omitempty" json:"companyPhone,omitempty"`
	CompanyAddress string `bson:"companyAddress,omitempty" json:"companyAddress,omitempty"`

	ScanCount int64  `bson:"scanCount" json:"scanCount"`
	ScanLimit *int64 `bson:"scanLimit" json:"scanLimit"` // nil means the default ceiling
	Active    bool   `bson:"active" json:"active"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	OwnerId   primitive.ObjectID `bson:"userId" json:"userId"`
}

// Content is the canonical type-keyed payload of a non-custom record.
type Content struct {
	URL     string `json:"url,omitempty"`
	Text    string `json:"text,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
}

// CardUser is one entry of a custom business-card record.
type CardUser struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Links []string `json:"links"`
}

// Empty reports whether the entry carries nothing worth rendering.
func (u CardUser) Empty() bool {
	if trimmed(u.Name) || trimmed(u.Email) || trimmed(u.Phone) {
		return false
	}
	for _, l := range u.Links {
		if trimmed(l) {
			return false
		}
	}
	return true
}

type CompanyInfo struct {
	FormName       string `json:"formName"`
	CompanyName    string `json:"companyName"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyAddress string `json:"companyAddress"`
}

func (c CompanyInfo) Empty() bool {
	return c.FormName == "" && c.CompanyName == "" && c.CompanyEmail == "" &&
		c.CompanyPhone == "" && c.CompanyAddress == ""
}

type SocialLinks struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Whatsapp  string `json:"whatsapp"`
	Snapchat  string `json:"snapchat"`
	Twitter   string `json:"twitter"`
}

func (s SocialLinks) Empty() bool {
	return s.Instagram == "" && s.Facebook == "" && s.Whatsapp == "" &&
		s.Snapchat == "" && s.Twitter == ""
}

// ResolvedRecord is the canonical in-memory view of a QrRecord, whatever the
// stored shape was. It is derived, never persisted.
type ResolvedRecord struct {
	ID      string
	Type    string
	Content Content

	Users       []CardUser
	CompanyInfo CompanyInfo
	Social      SocialLinks

	GlobalHeading     string
	GlobalDescription string

	AndroidLink string
	IosLink     string

	ScanCount int64
	ScanLimit *int64
	Active    bool

	OwnerId primitive.ObjectID
}
