package format

import (
	"regexp"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vinumeris/crashfx/internal/config"
	"github.com/zclconf/go-cty/cty"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)

// Format takes HCL config content and returns it in canonical style:
// hclwrite's indentation and alignment, no runs of blank lines, and no blank
// lines just inside braces. It also works on partial or invalid HCL.
func Format(content string) (string, error) {
	formatted := hclwrite.Format([]byte(content))
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	return collapsed, nil
}

// DefaultConfig returns a formatted config file spelling out every default.
// The dashboard password is read from the environment.
func DefaultConfig() []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	server := root.AppendNewBlock("server", nil).Body()
	server.SetAttributeValue("host", cty.StringVal(config.DefaultHost))
	server.SetAttributeValue("port", cty.NumberIntVal(config.DefaultPort))
	server.SetAttributeValue("max_upload_bytes", cty.NumberIntVal(config.DefaultMaxUploadBytes))
	root.AppendNewline()

	database := root.AppendNewBlock("database", nil).Body()
	database.SetAttributeValue("path", cty.StringVal(config.DefaultDatabasePath))
	root.AppendNewline()

	dashboard := root.AppendNewBlock("dashboard", nil).Body()
	dashboard.SetAttributeValue("username", cty.StringVal(config.DefaultUsername))
	dashboard.SetAttributeRaw("password", hclwrite.TokensForFunctionCall("env",
		hclwrite.TokensForValue(cty.StringVal(config.PasswordEnv))))
	dashboard.SetAttributeValue("recent_limit", cty.NumberIntVal(config.DefaultRecentLimit))
	dashboard.SetAttributeValue("top", cty.NumberIntVal(0))
	dashboard.SetAttributeValue("seed", cty.StringVal("#6495ed"))
	dashboard.SetAttributeValue("padded_hex", cty.False)

	out, _ := Format(string(f.Bytes()))
	return []byte(out)
}
