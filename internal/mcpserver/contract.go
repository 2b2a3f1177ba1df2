package mcpserver

import (
	"fmt"

	"github.com/starford/jera/internal/settings"
)

// LayoutContract renders the vault layout convention for LLM consumers,
// filled in from the active journal settings.
func LayoutContract(st settings.Settings) string {
	return fmt.Sprintf(`# Jera Journal Layout Contract

Jera maintains a gapless calendar of dated Markdown notes under the
%q folder.

## Daily notes

`+"```"+`
%s/<%s>/<%s>/<%s> -.md
`+"```"+`

One note per calendar day. The file name starts with the formatted day
followed by `+"` -`"+`; anything after the dash is a free-form label the
user may add (e.g. `+"`15 - sprint review.md`"+`). The text before the
first dash identifies the day, so exactly one note per day exists no
matter how it is labelled.

## Monthly notes

`+"```"+`
%s/<%s>/%s/<%s> -.md
`+"```"+`

One note per calendar month, kept in the %q folder under the
year. The same dash convention applies: the text before the first dash
is the formatted month.

## Rules

1. Paths use forward slashes and are relative to the vault root.
2. Note files end with `+"`.md`"+`.
3. Never rename the part of a file name before the first dash; it is
   the note's calendar identity.
4. Use the resolve_link tool to navigate between notes instead of
   computing paths by hand; it handles month-length differences.
`,
		st.RootFolder,
		st.RootFolder, st.Formats.Year, st.Formats.Month, st.Formats.Day,
		st.RootFolder, st.Formats.Year, st.Monthly.FolderName, st.Formats.Month,
		st.Monthly.FolderName,
	)
}
