//go:build !windows && !darwin

package fonts

func PlatformPaths() []string {
	return []string{
		`/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc`,
		`/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc`,
		`/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf`,
		`/usr/share/fonts/TTF/DejaVuSans.ttf`,
	}
}
