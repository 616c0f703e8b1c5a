// Package scoring maps summary metrics to 0–100 quality scores, categorical
// labels, and targeted feedback for the rowing pull.
//
// Every criterion reduces to one of two normalization shapes: a two-sided
// "good band" with linear fall-off, or a one-sided lower-is-better cap.
// Composite scores blend criteria with fixed weights and are always clamped
// to [0,100]. A metric that could not be measured never crashes the scorer;
// it yields a stand-in sub-score and a warning that says "could not
// measure", which downstream reporting must keep distinct from "measured
// and out of range".
package scoring

// Labels for the three-tier classification. The 85/55 thresholds are the
// product's fixed grading structure.
const (
	LabelOK     = "ok"
	LabelMedium = "medium"
	LabelPoor   = "poor"
)

// LabelForScore maps a 0–100 score to its label. Monotonic: a higher score
// never yields a worse label.
func LabelForScore(score float64) string {
	switch {
	case score >= 85:
		return LabelOK
	case score >= 55:
		return LabelMedium
	default:
		return LabelPoor
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ScoreFromRange scores a value against a good band [goodMin, goodMax]:
// 100 inside, decaying linearly to 0 as the distance to the violated bound
// reaches falloff. Falloff must be positive; config validation guards this.
func ScoreFromRange(value, goodMin, goodMax, falloff float64) float64 {
	if value >= goodMin && value <= goodMax {
		return 100
	}
	var dist float64
	if value < goodMin {
		dist = goodMin - value
	} else {
		dist = value - goodMax
	}
	return clamp(100*(1-dist/falloff), 0, 100)
}

// ScoreFromMax is the one-sided variant for lower-is-better criteria: 100
// for value <= goodMax, decaying linearly above it.
func ScoreFromMax(value, goodMax, falloff float64) float64 {
	if value <= goodMax {
		return 100
	}
	dist := value - goodMax
	return clamp(100*(1-dist/falloff), 0, 100)
}

// Note is one criterion's outcome: score, label, and its warnings in fixed
// emission order (never sorted or deduplicated).
type Note struct {
	Score    float64  `json:"score"`
	Label    string   `json:"label"`
	Warnings []string `json:"warnings"`
}

// Result is the single-note scoring outcome, with the intermediate values
// that produced it.
type Result struct {
	Note
	Details map[string]float64 `json:"details"`
}

// TwoNotes carries the independent elbow and trunk assessments plus the
// shared intermediate values. Neither note influences the other.
type TwoNotes struct {
	Elbow   Note               `json:"elbow"`
	Trunk   Note               `json:"trunk"`
	Details map[string]float64 `json:"details"`
}

// ElbowConfig tunes the elbow composite. All values are policy, not logic;
// defaults live in DefaultElbow.
type ElbowConfig struct {
	// Good band for elbow-angle amplitude. Too little range means a short
	// pull; too much usually means erratic execution or jittery detection.
	AmpGoodMin float64 `yaml:"amp_good_min" json:"amp_good_min"`
	AmpGoodMax float64 `yaml:"amp_good_max" json:"amp_good_max"`
	AmpFalloff float64 `yaml:"amp_falloff" json:"amp_falloff"`

	// Tight band around the target terminal angle (the minimum elbow angle
	// of the pull). Below the band the pull finishes too high; above it the
	// terminal contraction is incomplete.
	MinTarget    float64 `yaml:"min_target" json:"min_target"`
	MinTolerance float64 `yaml:"min_tolerance" json:"min_tolerance"`
	MinFalloff   float64 `yaml:"min_falloff" json:"min_falloff"`

	// Blend weights for the amplitude and terminal-angle sub-scores.
	WeightAmp float64 `yaml:"weight_amp" json:"weight_amp"`
	WeightMin float64 `yaml:"weight_min" json:"weight_min"`

	// Wrist-to-shoulder range hint. With ProxyWeight zero it is purely
	// advisory: warnings only, no score contribution.
	ProxyGoodMin float64 `yaml:"proxy_good_min" json:"proxy_good_min"`
	ProxyGoodMax float64 `yaml:"proxy_good_max" json:"proxy_good_max"`
	ProxyFalloff float64 `yaml:"proxy_falloff" json:"proxy_falloff"`
	ProxyWeight  float64 `yaml:"proxy_weight" json:"proxy_weight"`
}

// DefaultElbow returns the hand-tuned elbow policy for a lateral rowing
// video.
func DefaultElbow() ElbowConfig {
	return ElbowConfig{
		AmpGoodMin: 60,
		AmpGoodMax: 120,
		AmpFalloff: 50,

		MinTarget:    55,
		MinTolerance: 15,
		MinFalloff:   25,

		WeightAmp: 0.55,
		WeightMin: 0.45,

		ProxyGoodMin: 0.10,
		ProxyGoodMax: 0.40,
		ProxyFalloff: 0.20,
		ProxyWeight:  0,
	}
}

// TrunkConfig tunes the trunk composite.
type TrunkConfig struct {
	// Max-scored swing: total trunk-angle variation over the clip. Preferred
	// posture signal when measurable.
	VariationGoodMax float64 `yaml:"variation_good_max" json:"variation_good_max"`
	VariationFalloff float64 `yaml:"variation_falloff" json:"variation_falloff"`

	// Fallback posture band on the mean trunk angle, used when variation is
	// not measurable.
	MeanGoodMin float64 `yaml:"mean_good_min" json:"mean_good_min"`
	MeanGoodMax float64 `yaml:"mean_good_max" json:"mean_good_max"`
	MeanFalloff float64 `yaml:"mean_falloff" json:"mean_falloff"`

	// Stability: population standard deviation of the trunk angle, lower is
	// better.
	StdGoodMax float64 `yaml:"std_good_max" json:"std_good_max"`
	StdFalloff float64 `yaml:"std_falloff" json:"std_falloff"`

	// Peak trunk angle: catches throwing the body at the top of the pull.
	// Scored against MaxTarget+MaxTolerance, one-sided.
	MaxTarget    float64 `yaml:"max_target" json:"max_target"`
	MaxTolerance float64 `yaml:"max_tolerance" json:"max_tolerance"`
	MaxFalloff   float64 `yaml:"max_falloff" json:"max_falloff"`

	// Posture and stability blend weights for the base score.
	WeightPosture   float64 `yaml:"weight_posture" json:"weight_posture"`
	WeightStability float64 `yaml:"weight_stability" json:"weight_stability"`

	// Weight of the peak-angle term against the base score. Clamped to 0.7
	// at scoring time so the base signal always retains influence.
	WeightPeak float64 `yaml:"weight_peak" json:"weight_peak"`
}

// DefaultTrunk returns the hand-tuned trunk policy.
func DefaultTrunk() TrunkConfig {
	return TrunkConfig{
		VariationGoodMax: 45,
		VariationFalloff: 30,

		MeanGoodMin: 150,
		MeanGoodMax: 180,
		MeanFalloff: 40,

		StdGoodMax: 18,
		StdFalloff: 15,

		MaxTarget:    165,
		MaxTolerance: 15,
		MaxFalloff:   25,

		WeightPosture:   0.6,
		WeightStability: 0.4,
		WeightPeak:      0.3,
	}
}

// maxPeakWeight caps the peak-angle blend so the posture/stability base
// never drops below 30% influence.
const maxPeakWeight = 0.7

// ScoreElbow computes the elbow note from global metrics. Warnings come out
// in fixed order: amplitude, terminal angle, proxy.
func ScoreElbow(metrics map[string]*float64, cfg ElbowConfig, details map[string]float64) Note {
	var warnings []string

	amp := metrics["elbow_amplitude"]
	var ampScore float64
	if amp == nil {
		// Amplitude is the essential elbow signal: unmeasurable means the
		// whole sub-score is forfeit.
		ampScore = 0
		warnings = append(warnings, "Could not measure elbow range of motion (pose detection failed on arm landmarks).")
	} else {
		ampScore = ScoreFromRange(*amp, cfg.AmpGoodMin, cfg.AmpGoodMax, cfg.AmpFalloff)
		details["elbow_amplitude"] = *amp
		if *amp < cfg.AmpGoodMin {
			warnings = append(warnings, "Short range of motion: the elbow barely flexes during the pull.")
		} else if *amp > cfg.AmpGoodMax {
			warnings = append(warnings, "Range of motion unusually high: check detection quality or erratic execution.")
		}
	}
	details["elbow_amp_score"] = ampScore

	min := metrics["elbow_min"]
	var minScore float64
	if min == nil {
		minScore = 0
		warnings = append(warnings, "Could not measure the terminal elbow angle.")
	} else {
		lo := cfg.MinTarget - cfg.MinTolerance
		hi := cfg.MinTarget + cfg.MinTolerance
		minScore = ScoreFromRange(*min, lo, hi, cfg.MinFalloff)
		details["elbow_min"] = *min
		if *min < lo {
			warnings = append(warnings, "Pull finishes too high: the elbow closes past the target angle.")
		} else if *min > hi {
			warnings = append(warnings, "Incomplete pull: the elbow never reaches the target contraction.")
		}
	}
	details["elbow_min_score"] = minScore

	score := cfg.WeightAmp*ampScore + cfg.WeightMin*minScore

	proxy := metrics["wrist_shoulder_range"]
	if proxy != nil {
		proxyScore := ScoreFromRange(*proxy, cfg.ProxyGoodMin, cfg.ProxyGoodMax, cfg.ProxyFalloff)
		details["wrist_shoulder_range"] = *proxy
		details["elbow_proxy_score"] = proxyScore
		if *proxy < cfg.ProxyGoodMin {
			warnings = append(warnings, "The wrist barely travels toward the shoulder; the pull may be too shallow.")
		} else if *proxy > cfg.ProxyGoodMax {
			warnings = append(warnings, "Wrist travel is unusually large; check detection quality.")
		}
		if cfg.ProxyWeight > 0 {
			score = (1-cfg.ProxyWeight)*score + cfg.ProxyWeight*proxyScore
		}
	} else if cfg.ProxyWeight > 0 {
		// Auxiliary criterion: unmeasurable stays neutral, never punitive.
		warnings = append(warnings, "Could not measure wrist travel; the hint criterion was skipped.")
	}

	score = clamp(score, 0, 100)
	details["elbow_score"] = score

	return Note{Score: score, Label: LabelForScore(score), Warnings: warnings}
}

// ScoreTrunk computes the trunk note from global metrics. Warnings come out
// in fixed order: posture/variation, stability, peak angle.
func ScoreTrunk(metrics map[string]*float64, cfg TrunkConfig, details map[string]float64) Note {
	var warnings []string

	// Posture: prefer the swing-based variation, fall back to the mean
	// angle band when the swing could not be measured.
	variation := metrics["trunk_variation"]
	mean := metrics["trunk_mean"]
	var postureScore float64
	switch {
	case variation != nil:
		postureScore = ScoreFromMax(*variation, cfg.VariationGoodMax, cfg.VariationFalloff)
		details["trunk_variation"] = *variation
		if *variation > cfg.VariationGoodMax {
			warnings = append(warnings, "Excessive trunk swing: the torso moves too much through the pull.")
		}
	case mean != nil:
		postureScore = ScoreFromRange(*mean, cfg.MeanGoodMin, cfg.MeanGoodMax, cfg.MeanFalloff)
		details["trunk_mean"] = *mean
		if *mean < cfg.MeanGoodMin {
			warnings = append(warnings, "Trunk leans too far forward on average.")
		} else if *mean > cfg.MeanGoodMax {
			warnings = append(warnings, "Trunk over-extends on average.")
		}
	default:
		// Posture is the essential trunk signal.
		postureScore = 0
		warnings = append(warnings, "Could not measure trunk posture (pose detection failed on hip or knee landmarks).")
	}
	details["trunk_posture_score"] = postureScore

	std := metrics["trunk_std"]
	var stabilityScore float64
	if std == nil {
		stabilityScore = 100
		warnings = append(warnings, "Could not measure trunk stability.")
	} else {
		stabilityScore = ScoreFromMax(*std, cfg.StdGoodMax, cfg.StdFalloff)
		details["trunk_std"] = *std
		if *std > cfg.StdGoodMax {
			warnings = append(warnings, "Unstable trunk: the torso angle scatters frame to frame.")
		}
	}
	details["trunk_stability_score"] = stabilityScore

	base := postureScore
	if wSum := cfg.WeightPosture + cfg.WeightStability; wSum > 0 {
		base = (cfg.WeightPosture*postureScore + cfg.WeightStability*stabilityScore) / wSum
	}

	peak := metrics["trunk_max"]
	peakWeight := clamp(cfg.WeightPeak, 0, maxPeakWeight)
	var score float64
	if peak == nil {
		score = base
		warnings = append(warnings, "Could not measure the peak trunk angle.")
	} else {
		peakScore := ScoreFromMax(*peak, cfg.MaxTarget+cfg.MaxTolerance, cfg.MaxFalloff)
		details["trunk_max"] = *peak
		details["trunk_peak_score"] = peakScore
		if *peak > cfg.MaxTarget+cfg.MaxTolerance {
			warnings = append(warnings, "Body thrown at the top of the motion: the trunk opens past the target.")
		}
		score = (1-peakWeight)*base + peakWeight*peakScore
	}

	score = clamp(score, 0, 100)
	details["trunk_score"] = score

	return Note{Score: score, Label: LabelForScore(score), Warnings: warnings}
}

// Score computes the two-note assessment. The elbow and trunk notes are
// independent; Details aggregates the intermediate values of both.
func Score(metrics map[string]*float64, elbow ElbowConfig, trunk TrunkConfig) TwoNotes {
	details := make(map[string]float64)
	return TwoNotes{
		Elbow:   ScoreElbow(metrics, elbow, details),
		Trunk:   ScoreTrunk(metrics, trunk, details),
		Details: details,
	}
}

// ScoreAmplitude is the single-note scorer: elbow amplitude only, against
// the configured good band. Kept for quick checks on clips where only the
// arm is reliably visible.
func ScoreAmplitude(metrics map[string]*float64, cfg ElbowConfig) Result {
	details := make(map[string]float64)

	amp := metrics["elbow_amplitude"]
	if amp == nil {
		return Result{
			Note: Note{
				Score:    0,
				Label:    LabelPoor,
				Warnings: []string{"Could not measure elbow range of motion (pose detection failed or unusable video)."},
			},
			Details: details,
		}
	}

	score := ScoreFromRange(*amp, cfg.AmpGoodMin, cfg.AmpGoodMax, cfg.AmpFalloff)
	details["elbow_amplitude"] = *amp
	details["elbow_score"] = score

	var warnings []string
	if *amp < cfg.AmpGoodMin {
		warnings = append(warnings, "Short range of motion: the elbow barely flexes during the pull.")
	} else if *amp > cfg.AmpGoodMax {
		warnings = append(warnings, "Range of motion unusually high: check detection quality or erratic execution.")
	}

	return Result{
		Note:    Note{Score: score, Label: LabelForScore(score), Warnings: warnings},
		Details: details,
	}
}
