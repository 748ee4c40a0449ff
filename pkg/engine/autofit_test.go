package engine

import "testing"

func TestFitFontSize(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		base  int
		width int
		want  int
	}{
		{
			// "Hello World" is 11 chars: 11*32*0.6 = 211.2 > 100,
			// so 100/(11*0.6) = 15.15 floors to 15.
			name:  "shrinks to fit",
			text:  "Hello World",
			base:  32,
			width: 100,
			want:  15,
		},
		{
			name:  "clamps at minimum",
			text:  "Hello World",
			base:  32,
			width: 10,
			want:  12,
		},
		{
			name:  "already fits",
			text:  "Hi",
			base:  32,
			width: 400,
			want:  32,
		},
		{
			name:  "exact fit boundary",
			text:  "aaaa", // 4*25*0.6 = 60, not greater than 60
			base:  25,
			width: 60,
			want:  25,
		},
		{
			name:  "empty text unchanged",
			text:  "",
			base:  32,
			width: 100,
			want:  32,
		},
		{
			name:  "zero width unchanged",
			text:  "Hello",
			base:  32,
			width: 0,
			want:  32,
		},
		{
			name:  "multibyte runes counted as characters",
			text:  "héllo wörld", // 11 runes
			base:  32,
			width: 100,
			want:  15,
		},
		{
			// 4 runes even though each emoji is 4 bytes:
			// 120/(4*0.6) = 50.
			name:  "emoji count once each",
			text:  "🚀🚀🚀🚀",
			base:  100,
			width: 120,
			want:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitFontSize(tt.text, tt.base, tt.width); got != tt.want {
				t.Errorf("FitFontSize(%q, %d, %d) = %d, want %d",
					tt.text, tt.base, tt.width, got, tt.want)
			}
		})
	}
}
