package cvselect

import "math/rand"

// Fold represents the data samples used in one round of cross-validation.
// Each index refers to a row of the Dataset passed into CrossValidate.
type Fold struct {
	// Train are the rows used to fit the model for this fold.
	Train []int
	// Test are the held-out rows used to score the fitted model.
	Test []int
}

// KFold generates k folds from a shuffled, non-stratified partition of
// samples rows. The test sets are disjoint and together cover every row exactly
// once; the training set of a fold is the complement of its test set. If k is
// larger than samples, it is reduced to samples (leave one out). If rnd is nil
// the global source is used.
func KFold(samples, k int, rnd *rand.Rand) []Fold {
	if k < 0 {
		panic("cvselect: negative number of folds")
	}
	if samples < 0 {
		panic("cvselect: negative amount of data")
	}
	if k > samples {
		k = samples
	}
	if k == 0 {
		return nil
	}

	var perm []int
	if rnd == nil {
		perm = rand.Perm(samples)
	} else {
		perm = rnd.Perm(samples)
	}

	// Test sets are consecutive runs of perm. The first samples%k of them
	// hold one extra row.
	folds := make([]Fold, k)
	size, extra := samples/k, samples%k
	start := 0
	for i := range folds {
		end := start + size
		if i < extra {
			end++
		}
		f := &folds[i]
		f.Test = append([]int(nil), perm[start:end]...)
		f.Train = make([]int, 0, samples-(end-start))
		f.Train = append(f.Train, perm[:start]...)
		f.Train = append(f.Train, perm[end:]...)
		start = end
	}
	return folds
}
