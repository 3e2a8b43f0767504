package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_Button(t *testing.T) {
	b := E.Button(`id="save" class="primary" style="display: inline-block; cursor: default"`, E.Text("Save"))

	assert.Equal(t, "button", b.Tag())
	assert.Equal(t, "save", b.ID())
	cls, ok := b.Attr("class")
	require.True(t, ok)
	assert.Equal(t, "primary", cls)
	assert.Equal(t, "inline-block", b.Style("display"))
	assert.Equal(t, "default", b.Style("cursor"))
	assert.Equal(t, "Save", b.TextContent())
}

func TestFactory_BooleanAttributes(t *testing.T) {
	in := E.Input(`type="text" disabled hidden`)
	assert.True(t, in.Disabled())
	assert.True(t, in.Hidden())
	assert.Equal(t, "text", in.Type())
}

func TestFactory_QuotedValuesAndEntities(t *testing.T) {
	d := E.Div(`title='a > b' data-x="&amp;"`)
	title, _ := d.Attr("title")
	assert.Equal(t, "a > b", title)
	x, _ := d.Attr("data-x")
	assert.Equal(t, "&", x)
}

func TestFactory_EmptyAttributes(t *testing.T) {
	d := E.Div("")
	assert.Equal(t, "div", d.Tag())
	assert.Empty(t, d.Children())
}

func TestFactory_SVG(t *testing.T) {
	s := E.SVG(`viewBox="0 0 10 10"`, E.Path(`d="M0 0L10 10"`))
	ns, _ := s.Attr("xmlns")
	assert.Equal(t, "http://www.w3.org/2000/svg", ns)
	vb, _ := s.Attr("viewbox")
	assert.Equal(t, "0 0 10 10", vb)
	require.Len(t, s.Children(), 1)
	assert.Equal(t, "path", s.Children()[0].Tag())
}

func TestRef_Assign(t *testing.T) {
	var ref Ref[*Element]
	parent := E.Div("", Assign(&ref, E.Label(`for="x"`)))
	require.NotNil(t, ref.Val)
	assert.Same(t, ref.Val, parent.Children()[0])
}
