// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compositing

import (
	"github.com/revofoto/revofoto/internal/model"
)

// coeff is one linear coefficient pair: the resolved term value is
// base + scale*(intensity/100). One generic formula replaces a bespoke
// expression per filter.
type coeff struct {
	op    Op
	base  float64
	scale float64
}

func br(b, s float64) coeff   { return coeff{OpBrightness, b, s} }
func ct(b, s float64) coeff   { return coeff{OpContrast, b, s} }
func sat(b, s float64) coeff  { return coeff{OpSaturate, b, s} }
func hue(s float64) coeff     { return coeff{OpHueRotate, 0, s} }
func sep(s float64) coeff     { return coeff{OpSepia, 0, s} }
func gray(b, s float64) coeff { return coeff{OpGrayscale, b, s} }
func inv(s float64) coeff     { return coeff{OpInvert, 0, s} }
func blur(s float64) coeff    { return coeff{OpBlur, 0, s} }

// socialCoeffs maps every social filter to its coefficient rows, in
// application order. Values mirror the original filter set.
var socialCoeffs = map[model.SocialFilter][]coeff{
	model.SocialVintage:          {sep(0.5), ct(1, 0.2), br(0.9, 0.1), sat(0.8, 0.4)},
	model.SocialCinematic:        {ct(1, 0.1), br(0.9, 0.1), sat(1, 0.2), hue(-10)},
	model.SocialHDR:              {ct(1, 0.5), br(1, 0.2), sat(1, 0.3), sep(0.1)},
	model.SocialSoftLight:        {br(1, 0.1), ct(1, -0.1), sat(1, 0.05), blur(0.5)},
	model.SocialRetroGlow:        {sep(0.6), br(1, 0.1), ct(1, 0.1), hue(15), sat(0.9, 0.2)},
	model.SocialStudioPro:        {ct(1, 0.05), br(1, 0.05), sat(1, 0.1)},
	model.SocialClarendon:        {ct(1, 0.2), sat(1, 0.3), hue(-15)},
	model.SocialGingham:          {sep(0.15), ct(1, 0.1), br(1, 0.1), sat(1, -0.1), hue(5)},
	model.SocialMoon:             {gray(1, 0), ct(1, 0.1), br(1, 0.1)},
	model.SocialLark:             {br(1, 0.2), sat(1, 0.2), hue(-8)},
	model.SocialReyes:            {sep(0.25), br(1, 0.2), ct(1, -0.15), sat(1, -0.25)},
	model.SocialJuno:             {br(1, 0.15), sat(1, 0.3), hue(10)},
	model.SocialSlumber:          {sat(1, -0.2), br(1, 0.05), ct(1, 0.05)},
	model.SocialCrema:            {sep(0.15), br(1, 0.1), ct(1, -0.1), sat(1, -0.1)},
	model.SocialLudwig:           {sat(1, -0.15), br(1, 0.1), ct(1, 0.1), hue(5)},
	model.SocialAden:             {sat(1, -0.1), br(1, 0.1), hue(-5)},
	model.SocialPerpetua:         {sep(0.1), br(1, 0.1), ct(1, 0.1), hue(10)},
	model.SocialAmaro:            {br(1, 0.15), sat(1, 0.2), ct(1, 0.05), sep(0.1)},
	model.SocialMayfair:          {sep(0.05), br(1, 0.1), ct(1, 0.1), sat(1, 0.1)},
	model.SocialRise:             {br(1, 0.1), sep(0.2), sat(1, 0.1)},
	model.SocialHudson:           {ct(1, 0.1), br(1, -0.1), sat(1, 0.2), hue(-20)},
	model.SocialValencia:         {sep(0.08), br(1, 0.1), sat(1, 0.1), ct(1, 0.05)},
	model.SocialXProII:           {ct(1, 0.3), br(1, -0.2), sat(1, 0.2), sep(0.2)},
	model.SocialSierra:           {sep(0.15), ct(1, -0.2), br(1, 0.1), sat(1, -0.2)},
	model.SocialWillow:           {gray(1, 0), ct(1, -0.1), br(1, 0.1), sep(0.02)},
	model.SocialLoFi:             {ct(1, 0.5), sat(1, 0.3), br(1, -0.1)},
	model.SocialInkwell:          {gray(1, 0), ct(1, 0.2)},
	model.SocialHefe:             {ct(1, 0.25), sat(1, 0.25), br(1, 0.05), sep(0.15)},
	model.SocialNashville:        {sep(0.2), ct(1, 0.05), br(1, 0.05), sat(1, 0.1), hue(5)},
	model.SocialTokyo:            {ct(1, 0.2), sat(0.85, 0.15), br(1, -0.05), hue(-10)},
	model.SocialLagos:            {sat(1, 0.4), br(1, 0.1), ct(1, 0.1), sep(0.1)},
	model.SocialOslo:             {br(1, 0.05), ct(1, -0.1), sep(0.1), hue(-15)},
	model.SocialRio:              {sat(1, 0.3), br(1, 0.15), ct(1, 0.05)},
	model.SocialJaipur:           {sep(0.1), hue(15), ct(1, 0.1), sat(1, 0.2)},
	model.SocialCairo:            {sep(0.25), br(1, 0.1), ct(1, 0.1), sat(1, 0.1)},
	model.SocialBrooklyn:         {ct(1, 0.3), sat(1, -0.1), br(1, -0.05)},
	model.SocialHelena:           {ct(1, 0.05), sat(1, 0.1), sep(0.15)},
	model.SocialAshby:            {br(1, 0.1), sep(0.3), ct(1, -0.05)},
	model.SocialSkyline:          {ct(1, 0.15), br(1, -0.05), sat(1, 0.1)},
	model.SocialVesper:           {br(1, 0.05), sep(0.2), ct(1, -0.1), sat(1, 0.1)},
	model.SocialMaven:            {sat(1, -0.2), ct(1, 0.1), br(1, -0.1)},
	model.SocialStinson:          {br(1, 0.1), ct(1, -0.2), sep(0.1)},
	model.SocialToaster:          {sep(0.3), ct(1, 0.5), br(1, -0.1), hue(-15)},
	model.Social1977:             {sep(0.5), hue(-30), sat(1, 0.2), ct(1, -0.2)},
	model.SocialWalden:           {br(1, 0.1), hue(-10), sep(0.3), sat(1, 0.6)},
	model.SocialBrannan:          {sep(0.5), ct(1, 0.4)},
	model.SocialEarlybird:        {sep(0.4), ct(1, 0.1), br(1, -0.05)},
	model.SocialSutro:            {br(1, -0.2), ct(1, 0.2), sep(0.4), sat(1, -0.2)},
	model.SocialFilmNoir:         {gray(0, 1), ct(1, 0.5), br(1, -0.1)},
	model.SocialTechnicolor:      {sat(1, 1), ct(1, 0.2)},
	model.SocialCyberpunk:        {hue(-40), sat(1, 0.5), ct(1, 0.2), br(1, -0.1)},
	model.SocialTealOrange:       {ct(1, 0.1), sat(1, 0.2), sep(0.3), hue(-20)},
	model.SocialGoldenHour:       {sep(0.4), sat(1, 0.2), br(1, 0.1), ct(1, -0.1)},
	model.SocialDreamy:           {blur(0.5), sat(1, -0.2), br(1, 0.2), ct(1, -0.1)},
	model.SocialMelancholy:       {sat(1, -0.3), br(1, -0.1), ct(1, 0.1), hue(-15), sep(0.1)},
	model.SocialNordic:           {ct(1, 0.1), br(1, 0.05), sat(1, -0.1), hue(-10)},
	model.SocialMiami:            {sat(1, 0.4), ct(1, 0.1), hue(15)},
	model.SocialDesert:           {sep(0.5), ct(1, 0.2), sat(1, 0.1), br(1, 0.05)},
	model.SocialForest:           {sat(1, 0.2), ct(1, 0.1), sep(0.1), hue(5)},
	model.SocialOceanic:          {sat(1, 0.3), ct(1, 0.1), hue(-25)},
	model.SocialRoseGold:         {sep(0.3), sat(1, 0.2), hue(-10)},
	model.SocialPastel:           {sat(1, -0.3), br(1, 0.1), ct(1, -0.1)},
	model.SocialSolarize:         {inv(1), hue(180)},
	model.SocialCrimson:          {sep(0.3), sat(1, 0.5), hue(-20), ct(1, 0.1)},
	model.SocialFaded:            {ct(1, -0.2), sat(1, -0.2), br(1, 0.1)},
	model.SocialMatrix:           {sep(0.5), hue(50), sat(1, 0.5), ct(1, 0.2)},
	model.SocialSepiaTone:        {sep(0.8)},
	model.SocialMuted:            {sat(1, -0.5), ct(1, -0.1)},
	model.SocialVibrant:          {sat(1, 0.5)},
	model.SocialCool:             {br(1, 0.05), ct(1, 0.05), hue(-10)},
	model.SocialWarm:             {sep(0.2), br(1, 0.05), ct(1, 0.05)},
	model.SocialDramatic:         {ct(1, 0.4), br(1, -0.1), sat(1, 0.1)},
	model.SocialInfrared:         {hue(180), sat(1, 1), ct(1, 0.1)},
	model.SocialGothic:           {gray(0, 0.5), ct(1, 0.2), br(1, -0.2), sep(0.2)},
	model.SocialPopArt:           {ct(1, 0.6), sat(1, 0.8)},
	model.SocialLomo:             {ct(1, 0.5), sat(1, 0.5), sep(0.2), hue(-5)},
	model.SocialSummer:           {sat(1, 0.3), br(1, 0.1), sep(0.1)},
	model.SocialWinter:           {sat(1, -0.2), br(1, 0.1), ct(1, 0.1), hue(-10)},
	model.SocialAutumn:           {sep(0.4), sat(1, 0.2), hue(-15)},
	model.SocialSummerTan:        {sep(0.3), sat(0, 1.2), ct(0, 1.1), br(0, 1.05)},
	model.SocialWebcore:          {sep(0.2), ct(0, 1.2), sat(0, 0.9), hue(-5)},
	model.SocialBoldGlamour:      {ct(0, 1.2), sat(0, 1.3), sep(0.15), br(0, 1.05)},
	model.SocialAestheticWeekend: {br(0, 1.15), ct(0, 0.9), sat(0, 0.85), sep(0.2)},
}

// socialTerms resolves a social filter at the given intensity. A NONE
// filter, zero intensity or unknown name contributes nothing.
func socialTerms(filter model.SocialFilter, intensity int) []Term {
	if filter == model.SocialNone || intensity == 0 {
		return nil
	}
	rows, ok := socialCoeffs[filter]
	if !ok {
		return nil
	}
	scale := float64(intensity) / 100
	terms := make([]Term, len(rows))
	for i, c := range rows {
		terms[i] = Term{Op: c.op, Value: c.base + c.scale*scale}
	}
	return terms
}
