package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	tokens := []DeviceToken{
		{Token: "android-1", Platform: "android"},
		{Token: "ios-1", Platform: "ios"},
		{Token: "web-1", Platform: "web"},
		{Token: "", Platform: "android"},
		{Token: "legacy", Platform: ""},
	}

	msgs := BuildMessages(tokens, "Nieuwe badge", "Nul Held", map[string]any{"badge_type": "zero_hero", "count": 10})
	require.Len(t, msgs, 3)

	assert.Equal(t, "android-1", msgs[0].Token)
	require.NotNil(t, msgs[0].Android)
	assert.Equal(t, "high", msgs[0].Android.Priority)
	assert.Nil(t, msgs[0].APNS)

	assert.Equal(t, "ios-1", msgs[1].Token)
	require.NotNil(t, msgs[1].APNS)
	assert.Nil(t, msgs[1].Android)

	assert.Equal(t, "legacy", msgs[2].Token)
	assert.NotNil(t, msgs[2].Android)

	assert.Equal(t, "Nieuwe badge", msgs[0].Notification.Title)
	assert.Equal(t, "10", msgs[0].Data["count"])
}

func TestBuildMessagesNoTokens(t *testing.T) {
	assert.Empty(t, BuildMessages(nil, "t", "b", nil))
}

func TestRegisterDeviceRequestValidate(t *testing.T) {
	assert.NoError(t, (&RegisterDeviceRequest{Token: "abc", Platform: "ios"}).Validate())
	assert.Error(t, (&RegisterDeviceRequest{Token: "abc", Platform: "blackberry"}).Validate())
	assert.Error(t, (&RegisterDeviceRequest{Platform: "android"}).Validate())
}
