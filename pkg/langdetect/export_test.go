package langdetect

var FromInfoString = fromInfoString
