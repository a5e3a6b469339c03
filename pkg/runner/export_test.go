package runner

var (
	NewWithConverter = newWithConverter
	FirstHeading     = firstHeading
	MatchGlob        = matchGlob
)
