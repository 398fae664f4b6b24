package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	t.Run("EmptyBody_ShouldFail", func(t *testing.T) {
		resp := ParseResponse(nil)
		assert.False(t, resp.Success)
		assert.Equal(t, ErrInvalidResponse, resp.Error)

		resp = ParseResponse([]byte("  \n "))
		assert.False(t, resp.Success)
		assert.Equal(t, ErrInvalidResponse, resp.Error)
	})

	t.Run("JSONNull_ShouldFail", func(t *testing.T) {
		resp := ParseResponse([]byte("null"))
		assert.False(t, resp.Success)
		assert.Equal(t, ErrInvalidResponse, resp.Error)
	})

	t.Run("NonObjectValues_ShouldFail", func(t *testing.T) {
		for _, raw := range []string{`"x"`, `42`, `true`, `[1,2]`, `not json`} {
			resp := ParseResponse([]byte(raw))
			assert.False(t, resp.Success, "raw=%s", raw)
			assert.Equal(t, ErrInvalidResponse, resp.Error, "raw=%s", raw)
		}
	})

	t.Run("ErrorField_ShouldSurfaceVerbatim", func(t *testing.T) {
		resp := ParseResponse([]byte(`{"error":"boom"}`))
		assert.False(t, resp.Success)
		assert.Equal(t, "boom", resp.Error)
		assert.Nil(t, resp.Message)
		assert.Nil(t, resp.Draft)
	})

	t.Run("ErrorFieldWithPayload_ShouldNotPopulateMessageOrDraft", func(t *testing.T) {
		resp := ParseResponse([]byte(`{"error":"boom","message":{"role":"assistant","content":"hi"}}`))
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Message)
	})

	t.Run("FalsyError_ShouldSucceed", func(t *testing.T) {
		for _, raw := range []string{`{"error":""}`, `{"error":null}`, `{"error":false}`, `{"error":0}`} {
			resp := ParseResponse([]byte(raw))
			assert.True(t, resp.Success, "raw=%s", raw)
			assert.Empty(t, resp.Error, "raw=%s", raw)
		}
	})

	t.Run("TruthyNonStringError_ShouldFail", func(t *testing.T) {
		resp := ParseResponse([]byte(`{"error":true}`))
		assert.False(t, resp.Success)
		assert.Equal(t, "true", resp.Error)

		resp = ParseResponse([]byte(`{"error":503}`))
		assert.False(t, resp.Success)
		assert.Equal(t, "503", resp.Error)
	})

	t.Run("MessageOnly_ShouldLeaveDraftAbsent", func(t *testing.T) {
		resp := ParseResponse([]byte(`{"message":{"role":"assistant","content":"hi"}}`))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Message)
		assert.Equal(t, "assistant", resp.Message.Role)
		assert.Equal(t, "hi", resp.Message.Content)
		assert.Nil(t, resp.Draft)
	})

	t.Run("MessageAndDraft_ShouldBothDecode", func(t *testing.T) {
		raw := `{
			"message": {"role": "assistant", "content": "Here you go"},
			"draft": {"id": "d-1", "title": "Pasta", "publish_url": "/ai/chef/publish/d-1/"}
		}`
		resp := ParseResponse([]byte(raw))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Message)
		require.NotNil(t, resp.Draft)
		assert.Equal(t, Identifier("d-1"), resp.Draft.ID)
		assert.Equal(t, "Pasta", resp.Draft.Title)
		assert.Equal(t, "/ai/chef/publish/d-1/", resp.Draft.PublishURL)
		assert.True(t, resp.Draft.Actionable())
	})

	t.Run("EmptyObject_ShouldSucceedWithNeither", func(t *testing.T) {
		resp := ParseResponse([]byte(`{}`))
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Message)
		assert.Nil(t, resp.Draft)
	})

	t.Run("NumericDraftID_ShouldDecodeAsString", func(t *testing.T) {
		resp := ParseResponse([]byte(`{"draft":{"id":7,"title":"Soup","publish_url":"/p/7/"}}`))
		require.NotNil(t, resp.Draft)
		assert.Equal(t, Identifier("7"), resp.Draft.ID)
	})

	t.Run("NullSubObjects_ShouldBeAbsent", func(t *testing.T) {
		resp := ParseResponse([]byte(`{"message":null,"draft":null}`))
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Message)
		assert.Nil(t, resp.Draft)
	})

	t.Run("MalformedSubObjects_ShouldBeAbsent", func(t *testing.T) {
		resp := ParseResponse([]byte(`{"message":"hi","draft":[1]}`))
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Message)
		assert.Nil(t, resp.Draft)
	})
}

func TestDraftActionable(t *testing.T) {
	t.Run("NilDraft_ShouldNotBeActionable", func(t *testing.T) {
		var d *Draft
		assert.False(t, d.Actionable())
	})

	t.Run("MissingID_ShouldNotBeActionable", func(t *testing.T) {
		assert.False(t, (&Draft{PublishURL: "/p/1/"}).Actionable())
	})

	t.Run("MissingPublishURL_ShouldNotBeActionable", func(t *testing.T) {
		assert.False(t, (&Draft{ID: "1"}).Actionable())
	})

	t.Run("Complete_ShouldBeActionable", func(t *testing.T) {
		assert.True(t, (&Draft{ID: "1", PublishURL: "/p/1/"}).Actionable())
	})
}
