package fonts

// PlatformPaths lists Japanese-capable system fonts, most preferred first.
func PlatformPaths() []string {
	return []string{
		`C:\Windows\Fonts\msgothic.ttc`,
		`C:\Windows\Fonts\yugothic.ttc`,
		`C:\Windows\Fonts\YuGothicUI.ttf`,
		`C:\Windows\Fonts\arialuni.ttf`,
	}
}
