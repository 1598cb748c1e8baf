// Package meta provides typed accessors for standard optional OpenEXR
// metadata attributes.
//
// These attributes describe provenance, camera setup, and color
// handling. None of them are required by validation; the accessors
// exist so callers get typed values instead of digging through the
// attribute registry. All functions operate on *imf.Header.
//
// Example:
//
//	h := imf.DefaultHeader()
//	meta.SetOwner(h, "Studio XYZ")
//	meta.SetFramesPerSecond(h, meta.FPS24)
package meta

import (
	"strings"

	"github.com/scott-wilson/go-imf/imf"
)

// Standard optional attribute names
const (
	// Production metadata
	AttrOwner           = "owner"
	AttrComments        = "comments"
	AttrCapDate         = "capDate"
	AttrUTCOffset       = "utcOffset"
	AttrFramesPerSecond = "framesPerSecond"

	// Environment/texture
	AttrEnvMap    = "envmap"
	AttrWrapModes = "wrapmodes"

	// Camera properties
	AttrAperture = "aperture"
	AttrFocus    = "focus"
	AttrISOSpeed = "isoSpeed"
	AttrExpTime  = "expTime"

	// Display/color
	AttrWhiteLuminance = "whiteLuminance"
	AttrXDensity       = "xDensity"
	AttrAdoptedNeutral = "adoptedNeutral"
	AttrChromaticities = "chromaticities"

	// 3D transforms
	AttrWorldToCamera = "worldToCamera"
	AttrWorldToNDC    = "worldToNDC"
)

// Production metadata

// SetOwner sets the image owner or creator.
func SetOwner(h *imf.Header, owner string) error {
	return setString(h, AttrOwner, owner)
}

// Owner returns the image owner, or "" if not set.
func Owner(h *imf.Header) string {
	return getString(h, AttrOwner)
}

// SetComments sets the free-form comments.
func SetComments(h *imf.Header, comments string) error {
	return setString(h, AttrComments, comments)
}

// Comments returns the comments, or "" if not set.
func Comments(h *imf.Header) string {
	return getString(h, AttrComments)
}

// SetCapDate sets the capture date, conventionally in
// "YYYY:MM:DD hh:mm:ss" local time.
func SetCapDate(h *imf.Header, date string) error {
	return setString(h, AttrCapDate, date)
}

// CapDate returns the capture date, or "" if not set.
func CapDate(h *imf.Header) string {
	return getString(h, AttrCapDate)
}

// SetUTCOffset sets the offset of local time at capture from UTC, in
// seconds.
func SetUTCOffset(h *imf.Header, seconds float32) error {
	return setFloat(h, AttrUTCOffset, seconds)
}

// UTCOffset returns the UTC offset in seconds, or 0 if not set.
func UTCOffset(h *imf.Header) float32 {
	return getFloat(h, AttrUTCOffset)
}

// SetFramesPerSecond sets the playback frame rate of an image
// sequence.
func SetFramesPerSecond(h *imf.Header, r imf.Rational) error {
	return h.Insert(&imf.Attribute{Name: AttrFramesPerSecond, Type: imf.AttrTypeRational, Value: r})
}

// FramesPerSecond returns the frame rate, or nil if not set.
func FramesPerSecond(h *imf.Header) *imf.Rational {
	if r, ok := imf.Find[imf.Rational](h.Registry(), AttrFramesPerSecond); ok {
		return &r
	}
	return nil
}

// Common frame rates. The NTSC-derived rates keep their exact 1001
// denominators.
var (
	FPS24    = imf.Rational{Num: 24, Denom: 1}
	FPS23976 = imf.Rational{Num: 24000, Denom: 1001}
	FPS25    = imf.Rational{Num: 25, Denom: 1}
	FPS2997  = imf.Rational{Num: 30000, Denom: 1001}
	FPS30    = imf.Rational{Num: 30, Denom: 1}
	FPS48    = imf.Rational{Num: 48, Denom: 1}
	FPS50    = imf.Rational{Num: 50, Denom: 1}
	FPS5994  = imf.Rational{Num: 60000, Denom: 1001}
	FPS60    = imf.Rational{Num: 60, Denom: 1}
)

// Environment maps

// SetEnvMap marks the image as an environment map of the given kind.
func SetEnvMap(h *imf.Header, e imf.EnvMap) error {
	return h.Insert(&imf.Attribute{Name: AttrEnvMap, Type: imf.AttrTypeEnvmap, Value: e})
}

// GetEnvMap returns the environment map kind. The second result is
// false if the attribute is not set.
func GetEnvMap(h *imf.Header) (imf.EnvMap, bool) {
	return imf.Find[imf.EnvMap](h.Registry(), AttrEnvMap)
}

// WrapMode specifies texture lookup behavior outside the data window.
type WrapMode uint8

const (
	WrapClamp WrapMode = iota
	WrapPeriodic
	WrapBlack
	WrapMirror
)

var wrapModeNames = [...]string{"clamp", "periodic", "black", "mirror"}

func (m WrapMode) String() string {
	if int(m) < len(wrapModeNames) {
		return wrapModeNames[m]
	}
	return "unknown"
}

// WrapModes holds the horizontal and vertical texture wrap modes.
// On disk they are a single string, "horizontal,vertical".
type WrapModes struct {
	Horizontal WrapMode
	Vertical   WrapMode
}

// SetWrapModes sets the texture wrap modes.
func SetWrapModes(h *imf.Header, w WrapModes) error {
	return setString(h, AttrWrapModes, w.Horizontal.String()+","+w.Vertical.String())
}

// GetWrapModes returns the texture wrap modes, or nil if not set or
// unparseable.
func GetWrapModes(h *imf.Header) *WrapModes {
	s := getString(h, AttrWrapModes)
	hName, vName, found := strings.Cut(s, ",")
	if !found {
		return nil
	}
	hMode, hOK := parseWrapMode(hName)
	vMode, vOK := parseWrapMode(vName)
	if !hOK || !vOK {
		return nil
	}
	return &WrapModes{Horizontal: hMode, Vertical: vMode}
}

func parseWrapMode(s string) (WrapMode, bool) {
	for i, name := range wrapModeNames {
		if s == name {
			return WrapMode(i), true
		}
	}
	return 0, false
}

// Camera properties

// SetAperture sets the lens aperture as an f-number.
func SetAperture(h *imf.Header, fNumber float32) error {
	return setFloat(h, AttrAperture, fNumber)
}

// Aperture returns the lens aperture, or 0 if not set.
func Aperture(h *imf.Header) float32 {
	return getFloat(h, AttrAperture)
}

// SetFocus sets the focus distance in meters.
func SetFocus(h *imf.Header, meters float32) error {
	return setFloat(h, AttrFocus, meters)
}

// Focus returns the focus distance in meters, or 0 if not set.
func Focus(h *imf.Header) float32 {
	return getFloat(h, AttrFocus)
}

// SetISOSpeed sets the film or sensor ISO sensitivity.
func SetISOSpeed(h *imf.Header, iso float32) error {
	return setFloat(h, AttrISOSpeed, iso)
}

// ISOSpeed returns the ISO sensitivity, or 0 if not set.
func ISOSpeed(h *imf.Header) float32 {
	return getFloat(h, AttrISOSpeed)
}

// SetExpTime sets the exposure time in seconds.
func SetExpTime(h *imf.Header, seconds float32) error {
	return setFloat(h, AttrExpTime, seconds)
}

// ExpTime returns the exposure time in seconds, or 0 if not set.
func ExpTime(h *imf.Header) float32 {
	return getFloat(h, AttrExpTime)
}

// Display and color

// SetWhiteLuminance sets the luminance of white, in cd/m².
func SetWhiteLuminance(h *imf.Header, nits float32) error {
	return setFloat(h, AttrWhiteLuminance, nits)
}

// WhiteLuminance returns the luminance of white, or 0 if not set.
func WhiteLuminance(h *imf.Header) float32 {
	return getFloat(h, AttrWhiteLuminance)
}

// SetXDensity sets the horizontal output density in pixels per inch.
func SetXDensity(h *imf.Header, ppi float32) error {
	return setFloat(h, AttrXDensity, ppi)
}

// XDensity returns the horizontal output density, or 0 if not set.
func XDensity(h *imf.Header) float32 {
	return getFloat(h, AttrXDensity)
}

// SetAdoptedNeutral sets the CIE xy coordinates that should be
// considered neutral during color rendering.
func SetAdoptedNeutral(h *imf.Header, xy imf.V2f) error {
	return h.Insert(&imf.Attribute{Name: AttrAdoptedNeutral, Type: imf.AttrTypeV2f, Value: xy})
}

// AdoptedNeutral returns the adopted neutral coordinates, or nil if
// not set.
func AdoptedNeutral(h *imf.Header) *imf.V2f {
	if v, ok := imf.Find[imf.V2f](h.Registry(), AttrAdoptedNeutral); ok {
		return &v
	}
	return nil
}

// SetChromaticities sets the color primaries and white point.
func SetChromaticities(h *imf.Header, c imf.Chromaticities) error {
	return h.Insert(&imf.Attribute{Name: AttrChromaticities, Type: imf.AttrTypeChromaticities, Value: c})
}

// GetChromaticities returns the color primaries and white point, or
// nil if not set. Readers conventionally assume Rec. 709 primaries
// when absent; see imf.DefaultChromaticities.
func GetChromaticities(h *imf.Header) *imf.Chromaticities {
	if c, ok := imf.Find[imf.Chromaticities](h.Registry(), AttrChromaticities); ok {
		return &c
	}
	return nil
}

// 3D transforms

// SetWorldToCamera sets the world-to-camera transformation matrix.
func SetWorldToCamera(h *imf.Header, m imf.M44f) error {
	return h.Insert(&imf.Attribute{Name: AttrWorldToCamera, Type: imf.AttrTypeM44f, Value: m})
}

// WorldToCamera returns the world-to-camera matrix, or nil if not set.
func WorldToCamera(h *imf.Header) *imf.M44f {
	if m, ok := imf.Find[imf.M44f](h.Registry(), AttrWorldToCamera); ok {
		return &m
	}
	return nil
}

// SetWorldToNDC sets the world-to-NDC transformation matrix.
func SetWorldToNDC(h *imf.Header, m imf.M44f) error {
	return h.Insert(&imf.Attribute{Name: AttrWorldToNDC, Type: imf.AttrTypeM44f, Value: m})
}

// WorldToNDC returns the world-to-NDC matrix, or nil if not set.
func WorldToNDC(h *imf.Header) *imf.M44f {
	if m, ok := imf.Find[imf.M44f](h.Registry(), AttrWorldToNDC); ok {
		return &m
	}
	return nil
}

func setString(h *imf.Header, name, value string) error {
	return h.Insert(&imf.Attribute{Name: name, Type: imf.AttrTypeString, Value: value})
}

func getString(h *imf.Header, name string) string {
	v, _ := imf.Find[string](h.Registry(), name)
	return v
}

func setFloat(h *imf.Header, name string, value float32) error {
	return h.Insert(&imf.Attribute{Name: name, Type: imf.AttrTypeFloat, Value: value})
}

func getFloat(h *imf.Header, name string) float32 {
	v, _ := imf.Find[float32](h.Registry(), name)
	return v
}
