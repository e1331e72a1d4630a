package face

// Well-known slot types.
const (
	TypeBackgrounds uint8 = 0x00
	TypeBackground  uint8 = 0x01
	TypeTapToChange uint8 = 0xf6
	TypeAnimation   uint8 = 0xf7
	TypeAnimationF8 uint8 = 0xf8
)

// TypeInfo describes what a slot type displays and how many consecutive
// blobs it uses.
type TypeInfo struct {
	Code        uint8
	Name        string
	Frames      int
	Description string
}

var typeTable = []TypeInfo{
	{0x00, "BACKGROUNDS", 10, "Background (10 parts of 240x24). May contain example time (will be overwritten). Seen in Type A faces."},
	{0x01, "BACKGROUND", 1, "Background image, usually width and height of screen. Seen in Type B & C faces."},
	{0x10, "MONTH_NAME", 12, "JAN, FEB, MAR, APR, MAY, JUN, JUL, AUG, SEP, OCT, NOV, DEC."},
	{0x11, "MONTH_NUM", 10, "Month, digits."},
	{0x12, "YEAR", 10, "Year, 2 digits, left aligned."},
	{0x30, "DAY_NUM", 10, "Day number of the month, digits."},
	{0x40, "TIME_H1", 10, "Hh:mm"},
	{0x41, "TIME_H2", 10, "hH:mm"},
	{0x43, "TIME_M1", 10, "hh:Mm"},
	{0x44, "TIME_M2", 10, "hh:mM"},
	{0x45, "TIME_AM", 1, "'AM'."},
	{0x46, "TIME_PM", 1, "'PM'."},
	{0x60, "DAY_NAME", 7, "SUN, MON, TUE, WED, THU, FRI, SAT."},
	{0x61, "DAY_NAME_CN", 7, "SUN, MON, TUE, WED, THU, FRI, SAT, chinese symbol option."},
	{0x62, "STEPS", 10, "Step count, left aligned, digits."},
	{0x63, "STEPS_CA", 10, "Step count, centre aligned, digits."},
	{0x64, "STEPS_RA", 10, "Step count, right aligned, digits."},
	{0x65, "HR", 10, "Heart rate, left aligned, digits. (Assumed)."},
	{0x66, "HR_CA", 10, "Heart rate, centre aligned, digits. (Assumed)."},
	{0x67, "HR_RA", 10, "Heart rate, right aligned, digits."},
	{0x68, "KCAL", 10, "kCals, left aligned, digits."},
	{0x6b, "MONTH_NUM_B", 10, "Month, digits, alternate."},
	{0x6c, "DAY_NUM_B", 10, "Day number of the month, digits, alternate."},
	{0x70, "STEPS_PROGBAR", 11, "Steps progess bar 0,10,20...100%. 11 frames."},
	{0x71, "STEPS_LOGO", 1, "Step count, static logo."},
	{0x72, "STEPS_B", 10, "Step count, left aligned, digits, alternate."},
	{0x73, "STEPS_B_CA", 10, "Step count, centre aligned, digits, alternate."},
	{0x74, "STEPS_B_RA", 10, "Step count, right aligned, digits, alternate."},
	{0x76, "STEPS_GOAL", 1, "Step goal, left aligned, digits."},
	{0x80, "HR_PROGBAR", 11, "Heart rate, progress bar 0,10,20...100%. 11 frames."},
	{0x81, "HR_LOGO", 1, "Heart rate, static logo."},
	{0x82, "HR_B", 10, "Heart rate, left aligned, digits, alternate."},
	{0x83, "HR_B_CA", 10, "Heart rate, centre aligned, digits, alternate."},
	{0x84, "HR_B_RA", 10, "Heart rate, right aligned, digits, alternate."},
	{0x90, "KCAL_PROGBAR", 11, "kCals progress bar 0,10,20...100%. 11 frames."},
	{0x91, "KCAL_LOGO", 1, "kCals, static logo."},
	{0x92, "KCAL_B", 10, "kCals, left aligned, digits."},
	{0x93, "KCAL_B_CA", 10, "kCals, centre aligned, digits."},
	{0x94, "KCAL_B_RA", 10, "kCals, right aligned, digits."},
	{0xa0, "DIST_PROGBAR", 11, "Distance progress bar 0,10,20...100%. 11 frames."},
	{0xa1, "DIST_LOGO", 1, "Distance, static logo."},
	{0xa2, "DIST", 10, "Distance, left aligned, digits."},
	{0xa3, "DIST_CA", 10, "Distance, centre aligned, digits."},
	{0xa4, "DIST_RA", 10, "Distance, right aligned, digits."},
	{0xa5, "DIST_KM", 1, "Distance unit 'KM'."},
	{0xa6, "DIST_MI", 1, "Distance unit 'MI'."},
	{0xc0, "BTLINK_UP", 1, "Bluetooth link up / connected."},
	{0xc1, "BTLINK_DOWN", 1, "Bluetooth link down / not connected."},
	{0xce, "BATT_IMG", 1, "Battery level image."},
	{0xd0, "BATT_IMG_B", 1, "Battery level image, alternate."},
	{0xd1, "BATT_IMG_C", 1, "Battery level image, alternate."},
	{0xd2, "BATT", 10, "Battery level, left aligned, digits. (Assumed)."},
	{0xd3, "BATT_CA", 10, "Battery level, centre aligned, digits."},
	{0xd4, "BATT_RA", 10, "Battery level, right aligned, digits."},
	{0xda, "BATT_IMG_D", 1, "Battery level image, alternate."},
	{0xd8, "WEATHER_TEMP_CA", 10, "Weather temperature, centre aligned, digits."},
	{0xf0, "SEPERATOR", 1, "Static image used as date or time seperator e.g. / or :."},
	{0xf1, "HAND_HOUR", 1, "Analog time hour hand, at 1200 position."},
	{0xf2, "HAND_MINUTE", 1, "Analog time minute hand, at 1200 position."},
	{0xf3, "HAND_SEC", 1, "Analog time second hand, at 1200 position."},
	{0xf4, "HAND_PIN_UPPER", 1, "Top half of analog time centre pin."},
	{0xf5, "HAND_PIN_LOWER", 1, "Bottom half of analog time centre pin."},
	{0xf6, "TAP_TO_CHANGE", 3, "Series of images. Tap to change. Count is specified by animationFrames."},
	{0xf7, "ANIMATION", 7, "Animation. Count is specified by animationFrames."},
	{0xf8, "ANIMATION_F8", 10, "Animation. Count is specified by animationFrames."},
}

var typesByCode = func() map[uint8]TypeInfo {
	m := make(map[uint8]TypeInfo, len(typeTable))
	for _, t := range typeTable {
		m[t.Code] = t
	}
	return m
}()

// Types returns every known slot type in the order they are usually
// listed.
func Types() []TypeInfo {
	t := make([]TypeInfo, len(typeTable))
	copy(t, typeTable)
	return t
}

// LookupType returns the details of the slot type code.
func LookupType(code uint8) (TypeInfo, bool) {
	t, ok := typesByCode[code]
	return t, ok
}

// TypeName returns the name of the slot type code, or UNKNOWN.
func TypeName(code uint8) string {
	if t, ok := typesByCode[code]; ok {
		return t.Name
	}
	return "UNKNOWN"
}

// TypeCode returns the slot type code with the given name.
func TypeCode(name string) (uint8, bool) {
	for _, t := range typeTable {
		if t.Name == name {
			return t.Code, true
		}
	}
	return 0, false
}

// IsAnimation reports whether a slot of this type takes its frame count
// from the animation frame count rather than the type table.
func IsAnimation(code uint8) bool {
	return code >= TypeTapToChange && code <= TypeAnimationF8
}

// Screen describes a known watch screen and the face file type it uses.
type Screen struct {
	// Tpls is the screen type requested from the face download service.
	Tpls          string
	Width, Height int
	Kind          Kind
	Model, Code   string
}

// Screens lists the screens faces have been seen for.
var Screens = []Screen{
	{"1", 240, 240, Kind1, "?", "?"},
	{"6", 240, 240, Kind1, "?", "?"},
	{"7", 240, 240, Kind1, "?", "?"},
	{"8", 240, 240, Kind1, "?", "?"},
	{"13", 240, 240, Kind2, "?", "?"},
	{"19", 240, 240, Kind2, "?", "?"},
	{"20", 240, 240, Kind2, "?", "?"},
	{"25", 360, 360, Kind2, "?", "?"},
	{"27", 240, 240, Kind1, "?", "?"},
	{"28", 240, 240, Kind1, "?", "?"},
	{"29", 240, 240, Kind1, "?", "?"},
	{"30", 240, 240, Kind2, "?", "?"},
	{"33", 240, 280, Kind3, "C20", "QHF3"},
	{"34", 240, 280, Kind2, "?", "?"},
	{"36", 240, 295, Kind2, "?", "?"},
	{"38", 240, 240, Kind3, "?", "?"},
	{"39", 240, 240, Kind3, "?", "?"},
	{"40", 320, 385, Kind3, "?", "?"},
	{"41", 360, 360, Kind3, "?", "?"},
	{"44", 240, 283, Kind3, "?", "?"},
	{"45", 240, 295, Kind3, "?", "?"},
	{"46", 240, 288, Kind3, "?", "?"},
	{"47", 200, 320, Kind3, "?", "?"},
	{"48", 390, 390, Kind3, "?", "?"},
	{"49", 320, 380, Kind3, "?", "?"},
	{"51", 356, 400, Kind3, "?", "?"},
	{"52", 454, 454, Kind3, "?", "?"},
	{"53", 368, 448, Kind3, "?", "?"},
	{"55", 172, 320, Kind3, "?", "?"},
	{"56", 240, 286, Kind3, "?", "?"},
	{"59", 320, 386, Kind3, "?", "?"},
	{"60", 240, 284, Kind3, "?", "?"},
}
