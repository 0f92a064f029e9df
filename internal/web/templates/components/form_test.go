package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/itpreg/internal/model"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestTextInputMarksInvalidField(t *testing.T) {
	doc := renderDoc(t, TextInput(InputProps{
		Name:      model.FieldWhatsAppNumber,
		Label:     "WhatsApp Number",
		Type:      "tel",
		Value:     "123",
		Error:     "Enter a 10 digit number",
		Required:  true,
		MaxLength: 10,
	}))

	wrapper := doc.Find("#field-whatsappNumber")
	require.Equal(t, 1, wrapper.Length())
	assert.True(t, wrapper.HasClass("field"))
	assert.True(t, wrapper.HasClass("invalid"))

	input := wrapper.Find("input")
	assert.Equal(t, "tel", input.AttrOr("type", ""))
	assert.Equal(t, "123", input.AttrOr("value", ""))
	assert.Equal(t, "10", input.AttrOr("maxlength", ""))
	assert.Equal(t, "true", input.AttrOr("aria-invalid", ""))
	_, required := input.Attr("required")
	assert.True(t, required)

	assert.Equal(t, "Enter a 10 digit number", wrapper.Find(`p.field-error[data-field="whatsappNumber"]`).Text())
}

func TestTextInputDefaultsToText(t *testing.T) {
	doc := renderDoc(t, TextInput(InputProps{Name: model.FieldName, Label: "Full Name"}))

	wrapper := doc.Find("#field-name")
	assert.False(t, wrapper.HasClass("invalid"))
	assert.Equal(t, "text", wrapper.Find("input").AttrOr("type", ""))
	_, required := wrapper.Find("input").Attr("required")
	assert.False(t, required)
	assert.Equal(t, 0, wrapper.Find(".field-error").Length())
}

func TestSelectSpreadsAttrsAndMarksSelected(t *testing.T) {
	doc := renderDoc(t, Select(SelectProps{
		Name:        model.FieldPrimaryDomain,
		Label:       "Primary Domain",
		Placeholder: "Select primary domain",
		Options:     model.Domains,
		Selected:    "Web Dev",
		Attrs:       templ.Attributes{"hx-get": "/register/secondary-options"},
	}))

	sel := doc.Find("select#primaryDomain")
	assert.Equal(t, "/register/secondary-options", sel.AttrOr("hx-get", ""))
	assert.Equal(t, len(model.Domains)+1, sel.Find("option").Length())
	assert.Equal(t, "Web Dev", sel.Find("option[selected]").AttrOr("value", ""))
}

func TestSecondaryDomainSelectUsesSwapTarget(t *testing.T) {
	doc := renderDoc(t, SecondaryDomainSelect(nil, "", ""))

	wrapper := doc.Find("#" + SecondaryDomainFieldID)
	require.Equal(t, 1, wrapper.Length())
	assert.Equal(t, "", wrapper.Find("option[selected]").AttrOr("value", "missing"))
}
