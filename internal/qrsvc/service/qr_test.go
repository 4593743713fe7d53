package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
)

func TestIsPremiumFeature(t *testing.T) {
	assert.True(t, isPremiumFeature("text"))
	assert.True(t, isPremiumFeature("app"))
	assert.False(t, isPremiumFeature("url"))
	assert.False(t, isPremiumFeature("custom"))
	assert.False(t, isPremiumFeature("whatsapp"))
}

func TestCleanCustomUsersRequiresUser(t *testing.T) {
	_, err := cleanCustomUsers(map[string]any{"users": []any{}}, models.SubscriptionPremium)
	assert.ErrorIs(t, err, ErrCustomNeedsUser)

	_, err = cleanCustomUsers(map[string]any{}, models.SubscriptionPremium)
	assert.ErrorIs(t, err, ErrCustomNeedsUser)

	_, err = cleanCustomUsers("not a document", models.SubscriptionPremium)
	assert.ErrorIs(t, err, ErrCustomNeedsUser)
}

func TestCleanCustomUsersFreePlanCap(t *testing.T) {
	content := map[string]any{"users": []any{
		map[string]any{"name": "Abel"},
		map[string]any{"name": "Marta"},
	}}

	_, err := cleanCustomUsers(content, models.SubscriptionFree)
	assert.ErrorIs(t, err, ErrFreeUserLimit)

	users, err := cleanCustomUsers(content, models.SubscriptionPremium)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCleanCustomUsersNormalizesEntries(t *testing.T) {
	content := map[string]any{"users": []any{
		map[string]any{
			"name":  "Abel",
			"phone": 911223344, // wrong type, dropped
			"links": []any{"https://example.com"},
			"extra": "ignored",
		},
	}}

	users, err := cleanCustomUsers(content, models.SubscriptionFree)
	assert.NoError(t, err)
	assert.Len(t, users, 1)

	u := users[0]
	assert.Equal(t, "Abel", u["name"])
	assert.Equal(t, "", u["email"])
	assert.Equal(t, "", u["phone"])
	assert.Equal(t, []any{"https://example.com"}, u["links"])
	_, hasExtra := u["extra"]
	assert.False(t, hasExtra)
}

func TestCleanCustomUsersDefaultsLinks(t *testing.T) {
	users, err := cleanCustomUsers(map[string]any{"users": []any{
		map[string]any{"name": "Abel"},
	}}, models.SubscriptionFree)
	assert.NoError(t, err)
	assert.Equal(t, []any{}, users[0]["links"])
}
