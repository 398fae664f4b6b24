package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// RendererTestSuite exercises the assistant content renderer.
type RendererTestSuite struct {
	suite.Suite
	renderer *Renderer
}

func (suite *RendererTestSuite) SetupSuite() {
	suite.renderer = NewRenderer(zap.NewNop())
}

func (suite *RendererTestSuite) TestMarkdown() {
	suite.Run("BoldAndItalic_ShouldRender", func() {
		out := suite.renderer.RenderAssistantContent("**Pasta** is *great*")
		assert.Equal(suite.T(), "<strong>Pasta</strong> is <em>great</em>", out)
	})

	suite.Run("MultipleBoldSpans_ShouldStayNonGreedy", func() {
		out := suite.renderer.RenderAssistantContent("**one** and **two**")
		assert.Equal(suite.T(), "<strong>one</strong> and <strong>two</strong>", out)
	})

	suite.Run("UnmatchedAsterisk_ShouldStayLiteral", func() {
		out := suite.renderer.RenderAssistantContent("5 * 3 servings")
		assert.Equal(suite.T(), "5 * 3 servings", out)
	})

	suite.Run("ItalicAtStartOfString_ShouldRender", func() {
		out := suite.renderer.RenderAssistantContent("*quick* dinner")
		assert.Equal(suite.T(), "<em>quick</em> dinner", out)
	})

	suite.Run("ItalicMidWord_ShouldNotRender", func() {
		out := suite.renderer.RenderAssistantContent("snake*case*name")
		assert.Equal(suite.T(), "snake*case*name", out)
	})

	suite.Run("ItalicAcrossNewline_ShouldNotRender", func() {
		out := suite.renderer.RenderAssistantContent("*first\nsecond*")
		assert.Equal(suite.T(), "*first\nsecond*", out)
	})
}

func (suite *RendererTestSuite) TestLinks() {
	suite.Run("HTTPSLink_ShouldHydrate", func() {
		out := suite.renderer.RenderAssistantContent(`See <a href="https://example.com/pasta">this recipe</a>`)
		assert.Equal(suite.T(),
			`See <a href="https://example.com/pasta" class="chat-link">this recipe</a>`, out)
	})

	suite.Run("RelativeLink_ShouldHydrate", func() {
		out := suite.renderer.RenderAssistantContent(`<a href="/recipes/42/">your recipe</a>`)
		assert.Equal(suite.T(), `<a href="/recipes/42/" class="chat-link">your recipe</a>`, out)
	})

	suite.Run("SingleQuotedLink_ShouldHydrate", func() {
		out := suite.renderer.RenderAssistantContent(`<a href='http://example.com'>here</a>`)
		assert.Equal(suite.T(), `<a href="http://example.com" class="chat-link">here</a>`, out)
	})

	suite.Run("JavascriptScheme_ShouldKeepLabelOnly", func() {
		out := suite.renderer.RenderAssistantContent(`<a href="javascript:alert(1)">click me</a>`)
		assert.Equal(suite.T(), "click me", out)
	})

	suite.Run("DataScheme_ShouldKeepLabelOnly", func() {
		out := suite.renderer.RenderAssistantContent(`<a href="data:text/html,hi">payload</a>`)
		assert.Equal(suite.T(), "payload", out)
	})

	suite.Run("SchemeCheck_ShouldBeCaseInsensitive", func() {
		out := suite.renderer.RenderAssistantContent(`<a href="JavaScript:alert(1)">x</a>`)
		assert.Equal(suite.T(), "x", out)

		out = suite.renderer.RenderAssistantContent(`<a href="HTTPS://example.com">y</a>`)
		assert.Contains(suite.T(), out, `<a href=`)
	})

	suite.Run("PaddedURL_ShouldBeTrimmedBeforeCheck", func() {
		out := suite.renderer.RenderAssistantContent(`<a href="  https://example.com  ">padded</a>`)
		assert.Equal(suite.T(), `<a href="https://example.com" class="chat-link">padded</a>`, out)
	})

	suite.Run("UnknownScheme_ShouldKeepLabelOnly", func() {
		out := suite.renderer.RenderAssistantContent(`<a href="ftp://example.com/x">file</a>`)
		assert.Equal(suite.T(), "file", out)
	})

	suite.Run("MarkdownInsideLabel_ShouldStillRender", func() {
		// Link hydration runs first; the markdown passes then operate on
		// the whole string, label included.
		out := suite.renderer.RenderAssistantContent(`<a href="/r/1/">**bold label**</a>`)
		assert.Equal(suite.T(), `<a href="/r/1/" class="chat-link"><strong>bold label</strong></a>`, out)
	})
}

func (suite *RendererTestSuite) TestAdversarialInput() {
	suite.Run("ScriptTag_ShouldAppearOnlyEscaped", func() {
		out := suite.renderer.RenderAssistantContent("<script>alert(1)</script>")
		assert.NotContains(suite.T(), out, "<script")
		assert.Contains(suite.T(), out, "&lt;script&gt;")
	})

	suite.Run("ImgTag_ShouldAppearOnlyEscaped", func() {
		out := suite.renderer.RenderAssistantContent(`<img src=x onerror=alert(1)>`)
		assert.NotContains(suite.T(), out, "<img")
	})

	suite.Run("QuotesAndAmpersands_ShouldBeEntities", func() {
		out := suite.renderer.RenderAssistantContent(`Tom & Jerry's "best" dish`)
		assert.Equal(suite.T(), "Tom &amp; Jerry&#39;s &quot;best&quot; dish", out)
	})
}

func TestRendererTestSuite(t *testing.T) {
	suite.Run(t, new(RendererTestSuite))
}
