package theme

import "fmt"

// Role identifies the semantic category of a styled region of text.
type Role uint8

const (
	RoleBody Role = iota
	RoleHeading1
	RoleHeading2
	RoleHeading3
	RoleHeading4
	RoleHeading5
	RoleHeading6
	RoleEmphasis
	RoleStrong
	RoleCode
	RoleCodeBlock
	RoleLink
	RoleQuote
	RoleListMarker
	RoleMutedSyntax
)

var roleNames = map[Role]string{
	RoleBody:        "body",
	RoleHeading1:    "heading1",
	RoleHeading2:    "heading2",
	RoleHeading3:    "heading3",
	RoleHeading4:    "heading4",
	RoleHeading5:    "heading5",
	RoleHeading6:    "heading6",
	RoleEmphasis:    "emphasis",
	RoleStrong:      "strong",
	RoleCode:        "code",
	RoleCodeBlock:   "codeblock",
	RoleLink:        "link",
	RoleQuote:       "quote",
	RoleListMarker:  "listmarker",
	RoleMutedSyntax: "muted",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// RoleFromString resolves a role by its TOML/Lua key.
func RoleFromString(name string) (Role, bool) {
	for r, n := range roleNames {
		if n == name {
			return r, true
		}
	}
	return RoleBody, false
}

// HeadingRole maps a heading level to its role. Levels outside 1..6
// clamp to the nearest valid heading.
func HeadingRole(level int) Role {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return RoleHeading1 + Role(level-1)
}
