package assets

import "embed"

//go:embed *.md
var assetsFS embed.FS

// Welcome is shown in the preview while no directory is open.
func Welcome() string {
	return text("welcome.md")
}

// Help is the markdown help screen.
func Help() string {
	return text("help.md")
}

func GetAsset(name string) ([]byte, error) {
	return assetsFS.ReadFile(name)
}

func text(name string) string {
	data, err := GetAsset(name)
	if err != nil {
		return ""
	}
	return string(data)
}
