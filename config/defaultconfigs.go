package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCoordinates: true,
		Colors: ConfigColors{
			LightSquare:   223,
			DarkSquare:    94,
			BlackPiece:    232,
			WhitePiece:    255,
			Highlight:     28,
			CaptureTarget: 124,
			Selected:      214,
			CursorBG:      4,
			LastMoveBG:    58,
			Captured:      244,
			Coordinates:   245,
		},
		Symbols: ConfigSymbols{
			BlackPiece: '●',
			WhitePiece: '●',
			Highlight:  '·',
			Captured:   '○',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Animation: AnimationConfig{
			MoveMs:    300,
			CaptureMs: 500,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "legacy",
		},
		Web: WebConfig{
			Addr: ":8080",
		},
		Locale: "en",
	}
}
