package service

// Condition emoji for OpenWeatherMap condition codes
const (
	EmojiThunderstorm = "⛈️"
	EmojiDrizzle      = "🌦️"
	EmojiRain         = "🌧️"
	EmojiFreezingRain = "🌨️"
	EmojiSnow         = "❄️"
	EmojiAtmosphere   = "🌫️"
	EmojiTornado      = "🌪️"
	EmojiClear        = "☀️"
	EmojiFewClouds    = "🌤️"
	EmojiScattered    = "⛅"
	EmojiBrokenClouds = "🌥️"
	EmojiOvercast     = "☁️"
	EmojiUnknown      = "🌈"
	EmojiWarning      = "⚠️"
)

type codeRange struct {
	lo, hi int
	emoji  string
}

// conditionRanges must stay disjoint; order only matters for readability
var conditionRanges = []codeRange{
	{200, 232, EmojiThunderstorm},
	{300, 321, EmojiDrizzle},
	{500, 504, EmojiRain},
	{511, 511, EmojiFreezingRain},
	{520, 531, EmojiRain},
	{600, 622, EmojiSnow},
	{701, 771, EmojiAtmosphere},
	{781, 781, EmojiTornado},
	{800, 800, EmojiClear},
	{801, 801, EmojiFewClouds},
	{802, 802, EmojiScattered},
	{803, 803, EmojiBrokenClouds},
	{804, 804, EmojiOvercast},
}

// EmojiFor maps a condition code to its emoji. Unmapped codes get EmojiUnknown.
func EmojiFor(code int) string {
	for _, r := range conditionRanges {
		if code >= r.lo && code <= r.hi {
			return r.emoji
		}
	}
	return EmojiUnknown
}
