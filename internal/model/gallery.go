// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILTER ENUMS
// =============================================================================

// ImageFilter is the single "basic" filter applied at full strength.
type ImageFilter string

const (
	FilterNone      ImageFilter = "none"
	FilterSepia     ImageFilter = "sepia"
	FilterGrayscale ImageFilter = "grayscale"
	FilterInvert    ImageFilter = "invert"
	FilterBlur      ImageFilter = "blur"
)

// AIFilter names a server-side restyling operation. The pixels come back
// from the external service; the enum only records which one was applied.
type AIFilter string

const (
	AIFilterNone        AIFilter = "NONE"
	AIFilterCinematic   AIFilter = "CINEMATIC"
	AIFilterVintageFilm AIFilter = "VINTAGE_FILM"
	AIFilterDramaticBW  AIFilter = "DRAMATIC_BW"
	AIFilterGourmetFood AIFilter = "GOURMET_FOOD"
	AIFilterNeonPunk    AIFilter = "NEON_PUNK"
)

// SocialFilter names an intensity-scaled bundle of simulated
// color-grading adjustments. The coefficient table lives in
// internal/compositing; unknown names simply contribute nothing.
type SocialFilter string

const (
	SocialNone             SocialFilter = "NONE"
	SocialVintage          SocialFilter = "VINTAGE"
	SocialCinematic        SocialFilter = "CINEMATIC"
	SocialHDR              SocialFilter = "HDR"
	SocialSoftLight        SocialFilter = "SOFT_LIGHT"
	SocialRetroGlow        SocialFilter = "RETRO_GLOW"
	SocialStudioPro        SocialFilter = "STUDIO_PRO"
	SocialClarendon        SocialFilter = "CLARENDON"
	SocialGingham          SocialFilter = "GINGHAM"
	SocialMoon             SocialFilter = "MOON"
	SocialLark             SocialFilter = "LARK"
	SocialReyes            SocialFilter = "REYES"
	SocialJuno             SocialFilter = "JUNO"
	SocialSlumber          SocialFilter = "SLUMBER"
	SocialCrema            SocialFilter = "CREMA"
	SocialLudwig           SocialFilter = "LUDWIG"
	SocialAden             SocialFilter = "ADEN"
	SocialPerpetua         SocialFilter = "PERPETUA"
	SocialAmaro            SocialFilter = "AMARO"
	SocialMayfair          SocialFilter = "MAYFAIR"
	SocialRise             SocialFilter = "RISE"
	SocialHudson           SocialFilter = "HUDSON"
	SocialValencia         SocialFilter = "VALENCIA"
	SocialXProII           SocialFilter = "XPRO_II"
	SocialSierra           SocialFilter = "SIERRA"
	SocialWillow           SocialFilter = "WILLOW"
	SocialLoFi             SocialFilter = "LO_FI"
	SocialInkwell          SocialFilter = "INKWELL"
	SocialHefe             SocialFilter = "HEFE"
	SocialNashville        SocialFilter = "NASHVILLE"
	SocialTokyo            SocialFilter = "TOKYO"
	SocialLagos            SocialFilter = "LAGOS"
	SocialOslo             SocialFilter = "OSLO"
	SocialRio              SocialFilter = "RIO"
	SocialJaipur           SocialFilter = "JAIPUR"
	SocialCairo            SocialFilter = "CAIRO"
	SocialBrooklyn         SocialFilter = "BROOKLYN"
	SocialHelena           SocialFilter = "HELENA"
	SocialAshby            SocialFilter = "ASHBY"
	SocialSkyline          SocialFilter = "SKYLINE"
	SocialVesper           SocialFilter = "VESPER"
	SocialMaven            SocialFilter = "MAVEN"
	SocialStinson          SocialFilter = "STINSON"
	SocialToaster          SocialFilter = "TOASTER"
	Social1977             SocialFilter = "_1977"
	SocialWalden           SocialFilter = "WALDEN"
	SocialBrannan          SocialFilter = "BRANNAN"
	SocialEarlybird        SocialFilter = "EARLYBIRD"
	SocialSutro            SocialFilter = "SUTRO"
	SocialFilmNoir         SocialFilter = "FILM_NOIR"
	SocialTechnicolor      SocialFilter = "TECHNICOLOR"
	SocialCyberpunk        SocialFilter = "CYBERPUNK"
	SocialTealOrange       SocialFilter = "TEAL_ORANGE"
	SocialGoldenHour       SocialFilter = "GOLDEN_HOUR"
	SocialDreamy           SocialFilter = "DREAMY"
	SocialMelancholy       SocialFilter = "MELANCHOLY"
	SocialNordic           SocialFilter = "NORDIC"
	SocialMiami            SocialFilter = "MIAMI"
	SocialDesert           SocialFilter = "DESERT"
	SocialForest           SocialFilter = "FOREST"
	SocialOceanic          SocialFilter = "OCEANIC"
	SocialRoseGold         SocialFilter = "ROSE_GOLD"
	SocialPastel           SocialFilter = "PASTEL"
	SocialSolarize         SocialFilter = "SOLARIZE"
	SocialCrimson          SocialFilter = "CRIMSON"
	SocialFaded            SocialFilter = "FADED"
	SocialMatrix           SocialFilter = "MATRIX"
	SocialSepiaTone        SocialFilter = "SEPIA_TONE"
	SocialMuted            SocialFilter = "MUTED"
	SocialVibrant          SocialFilter = "VIBRANT"
	SocialCool             SocialFilter = "COOL"
	SocialWarm             SocialFilter = "WARM"
	SocialDramatic         SocialFilter = "DRAMATIC"
	SocialInfrared         SocialFilter = "INFRARED"
	SocialGothic           SocialFilter = "GOTHIC"
	SocialPopArt           SocialFilter = "POP_ART"
	SocialLomo             SocialFilter = "LOMO"
	SocialSummer           SocialFilter = "SUMMER"
	SocialWinter           SocialFilter = "WINTER"
	SocialAutumn           SocialFilter = "AUTUMN"
	SocialSummerTan        SocialFilter = "SUMMER_TAN"
	SocialWebcore          SocialFilter = "WEBCORE"
	SocialBoldGlamour      SocialFilter = "BOLD_GLAMOUR"
	SocialAestheticWeekend SocialFilter = "AESTHETIC_WEEKEND"
)

// Adjustment defaults.
const (
	DefaultBrightness = 100
	DefaultContrast   = 100
	DefaultIntensity  = 100
)

// =============================================================================
// GALLERY ENTRY
// =============================================================================

// GalleryEntry is one generated or edited image plus its adjustment
// state, independent of any chat message that references it.
//
// EnhancedRef is always derivable by compositing UncroppedEnhancedRef
// (or EnhancedRef itself when no baseline exists) through the current
// adjustment parameters. Cropping replaces EnhancedRef only; applying a
// server-side filter rebases both (see ApplyServerFilterResult).
type GalleryEntry struct {
	ID string `json:"id"`

	// Image references. OriginalRef may be empty (text-to-image).
	OriginalRef          string `json:"original_ref"`
	EnhancedRef          string `json:"enhanced_ref"`
	UncroppedEnhancedRef string `json:"uncropped_enhanced_ref,omitempty"`

	ImageMimeType string    `json:"image_mime_type"`
	PromptUsed    string    `json:"prompt_used"`
	Timestamp     time.Time `json:"timestamp"`

	// Adjustment state
	AppliedFilter          ImageFilter  `json:"applied_filter"`
	AppliedBrightness      int          `json:"applied_brightness"`
	AppliedContrast        int          `json:"applied_contrast"`
	AppliedSocialFilter    SocialFilter `json:"applied_social_filter"`
	AppliedSocialIntensity int          `json:"applied_social_intensity"`
	AppliedAIFilter        AIFilter     `json:"applied_ai_filter"`
}

// NewGalleryEntry creates an entry for freshly produced media with all
// adjustments at their defaults. The produced image doubles as its own
// uncropped baseline.
func NewGalleryEntry(originalRef, enhancedRef, mimeType, prompt string) *GalleryEntry {
	e := &GalleryEntry{
		ID:                   uuid.NewString(),
		OriginalRef:          originalRef,
		EnhancedRef:          enhancedRef,
		UncroppedEnhancedRef: enhancedRef,
		ImageMimeType:        mimeType,
		PromptUsed:           prompt,
		Timestamp:            time.Now(),
	}
	e.resetAdjustments()
	return e
}

func (e *GalleryEntry) resetAdjustments() {
	e.AppliedFilter = FilterNone
	e.AppliedBrightness = DefaultBrightness
	e.AppliedContrast = DefaultContrast
	e.AppliedSocialFilter = SocialNone
	e.AppliedSocialIntensity = DefaultIntensity
	e.AppliedAIFilter = AIFilterNone
}

// ResetAdjustments restores the enhanced image from the uncropped
// baseline (when one exists) and returns a copy with every adjustment
// at its default. Idempotent.
func (e GalleryEntry) ResetAdjustments() GalleryEntry {
	if e.UncroppedEnhancedRef != "" {
		e.EnhancedRef = e.UncroppedEnhancedRef
	}
	e.resetAdjustments()
	return e
}

// ApplyCrop records a rendered crop as the new enhanced image. The
// uncropped baseline is untouched so the crop can be undone later.
func (e GalleryEntry) ApplyCrop(croppedRef string) GalleryEntry {
	e.EnhancedRef = croppedRef
	return e
}

// ApplyServerFilterResult rebases the entry on a server-generated image:
// the new pixels become both the enhanced image and the uncropped
// baseline, and all manual adjustments reset to defaults, since they
// were computed against the old pixels.
func (e GalleryEntry) ApplyServerFilterResult(newRef, mimeType string, filter AIFilter) GalleryEntry {
	e.EnhancedRef = newRef
	e.UncroppedEnhancedRef = newRef
	if mimeType != "" {
		e.ImageMimeType = mimeType
	}
	e.resetAdjustments()
	e.AppliedAIFilter = filter
	return e
}

// =============================================================================
// GALLERY
// =============================================================================

// Gallery is an insertion-ordered collection of entries. Absolute
// insertion order is the only indexing scheme; viewers and persistence
// both use it.
type Gallery struct {
	Entries []*GalleryEntry `json:"entries"`
}

// Add appends an entry.
func (g *Gallery) Add(e *GalleryEntry) {
	g.Entries = append(g.Entries, e)
}

// Len returns the number of entries.
func (g *Gallery) Len() int {
	return len(g.Entries)
}

// EntryAt returns the entry at the given insertion index, or nil when
// out of range.
func (g *Gallery) EntryAt(i int) *GalleryEntry {
	if i < 0 || i >= len(g.Entries) {
		return nil
	}
	return g.Entries[i]
}

// IndexOf returns the insertion index of the entry with the given ID,
// or -1 when absent.
func (g *Gallery) IndexOf(id string) int {
	for i, e := range g.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the entry with the given ID, or nil.
func (g *Gallery) Find(id string) *GalleryEntry {
	if i := g.IndexOf(id); i >= 0 {
		return g.Entries[i]
	}
	return nil
}

// Replace swaps the entry with updated.ID for updated. Returns false
// when no such entry exists.
func (g *Gallery) Replace(updated GalleryEntry) bool {
	if i := g.IndexOf(updated.ID); i >= 0 {
		cp := updated
		g.Entries[i] = &cp
		return true
	}
	return false
}
