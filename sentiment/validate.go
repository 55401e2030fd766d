package sentiment

// Accuracy summarizes classifier output against the human labels collected
// from self-tagging platforms.
type Accuracy struct {
	Labeled int     `json:"labeled_posts"`
	Correct int     `json:"correct"`
	Percent float64 `json:"percent"`
}

// Validate compares predictions to ground truth pairwise. Posts without a
// human label are skipped; an all-nil label slice yields a zero Accuracy.
func Validate(predictions []Result, humanLabels []*string) Accuracy {
	var acc Accuracy
	n := len(predictions)
	if len(humanLabels) < n {
		n = len(humanLabels)
	}
	for i := 0; i < n; i++ {
		if humanLabels[i] == nil || *humanLabels[i] == "" {
			continue
		}
		acc.Labeled++
		if predictions[i].Label == *humanLabels[i] {
			acc.Correct++
		}
	}
	if acc.Labeled > 0 {
		acc.Percent = 100 * float64(acc.Correct) / float64(acc.Labeled)
	}
	return acc
}
