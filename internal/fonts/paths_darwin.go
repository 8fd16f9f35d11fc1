package fonts

func PlatformPaths() []string {
	return []string{
		`/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc`,
		`/System/Library/Fonts/Hiragino Sans GB.ttc`,
		`/Library/Fonts/Arial Unicode.ttf`,
		`/System/Library/Fonts/Supplemental/Arial Unicode.ttf`,
	}
}
