// Package textmodel provides a small local text classifier used to relabel
// descriptions the rule table could not classify.
package textmodel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"fjacquet/maint-report/internal/textutils"
)

var (
	// ErrNotFitted is returned when predicting with an untrained model.
	ErrNotFitted = errors.New("model has not been fitted")
	// ErrNoTrainingData is returned by Fit for an empty training set.
	ErrNoTrainingData = errors.New("no training documents")
)

const fitCtxCheckInterval = 256

// NaiveBayes is a multinomial naive Bayes classifier over TF-IDF weighted
// unigram and bigram features. The zero value is not usable; call
// NewNaiveBayes. Fit and Predict may be called from different goroutines.
type NaiveBayes struct {
	// Alpha is the additive (Laplace) smoothing parameter.
	Alpha float64
	// MaxNGram is the longest word n-gram used as a feature.
	MaxNGram int

	mu        sync.RWMutex
	classes   []string
	logPrior  []float64
	logLik    []map[string]float64
	logUnseen []float64
	idf       map[string]float64
}

// NewNaiveBayes returns a classifier with Laplace smoothing and unigram plus
// bigram features.
func NewNaiveBayes() *NaiveBayes {
	return &NaiveBayes{Alpha: 1.0, MaxNGram: 2}
}

// Fit trains the model on parallel slices of documents and labels.
// Documents without any token are ignored.
func (nb *NaiveBayes) Fit(ctx context.Context, docs []string, labels []string) error {
	if len(docs) != len(labels) {
		return fmt.Errorf("docs and labels differ in length: %d != %d", len(docs), len(labels))
	}
	if nb.Alpha <= 0 {
		return fmt.Errorf("smoothing alpha must be positive, got %v", nb.Alpha)
	}

	features := make([][]string, 0, len(docs))
	docLabels := make([]string, 0, len(docs))
	for i, doc := range docs {
		if i%fitCtxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		f := nb.features(doc)
		if len(f) == 0 {
			continue
		}
		features = append(features, f)
		docLabels = append(docLabels, labels[i])
	}
	if len(features) == 0 {
		return ErrNoTrainingData
	}

	// Smoothed inverse document frequency: ln((1+n)/(1+df)) + 1.
	df := make(map[string]int)
	for _, f := range features {
		seen := make(map[string]bool, len(f))
		for _, term := range f {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	n := float64(len(features))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	classIndex := make(map[string]int)
	var classes []string
	for _, l := range docLabels {
		if _, ok := classIndex[l]; !ok {
			classIndex[l] = -1
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)
	for i, c := range classes {
		classIndex[c] = i
	}

	docCount := make([]float64, len(classes))
	weightSum := make([]map[string]float64, len(classes))
	totalWeight := make([]float64, len(classes))
	for i := range classes {
		weightSum[i] = make(map[string]float64)
	}

	for i, f := range features {
		if i%fitCtxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		c := classIndex[docLabels[i]]
		docCount[c]++
		for term, w := range tfidf(f, idf) {
			weightSum[c][term] += w
			totalWeight[c] += w
		}
	}

	vocab := float64(len(idf))
	logPrior := make([]float64, len(classes))
	logLik := make([]map[string]float64, len(classes))
	logUnseen := make([]float64, len(classes))
	for c := range classes {
		logPrior[c] = math.Log(docCount[c] / n)
		denom := totalWeight[c] + nb.Alpha*vocab
		logLik[c] = make(map[string]float64, len(weightSum[c]))
		for term, w := range weightSum[c] {
			logLik[c][term] = math.Log((w + nb.Alpha) / denom)
		}
		logUnseen[c] = math.Log(nb.Alpha / denom)
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.classes = classes
	nb.logPrior = logPrior
	nb.logLik = logLik
	nb.logUnseen = logUnseen
	nb.idf = idf

	return nil
}

// Predict returns the most probable label for doc and its posterior
// probability. It returns an empty label when the model is not fitted or
// doc shares no feature with the training vocabulary.
func (nb *NaiveBayes) Predict(doc string) (string, float64) {
	probs, err := nb.Probabilities(doc)
	if err != nil || len(probs) == 0 {
		return "", 0
	}

	best, bestProb := "", -1.0
	for _, c := range nb.Classes() {
		if p := probs[c]; p > bestProb {
			best, bestProb = c, p
		}
	}
	return best, bestProb
}

// Probabilities returns the posterior probability of every class for doc.
// The map is empty when doc has no known feature.
func (nb *NaiveBayes) Probabilities(doc string) (map[string]float64, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	if nb.classes == nil {
		return nil, ErrNotFitted
	}

	weights := tfidf(nb.features(doc), nb.idf)
	if len(weights) == 0 {
		return map[string]float64{}, nil
	}

	joint := make([]float64, len(nb.classes))
	maxJoint := math.Inf(-1)
	for c := range nb.classes {
		j := nb.logPrior[c]
		for term, w := range weights {
			ll, ok := nb.logLik[c][term]
			if !ok {
				ll = nb.logUnseen[c]
			}
			j += w * ll
		}
		joint[c] = j
		if j > maxJoint {
			maxJoint = j
		}
	}

	// Normalized exponentiated log-joint, shifted by the maximum for stability.
	var sum float64
	for c := range joint {
		joint[c] = math.Exp(joint[c] - maxJoint)
		sum += joint[c]
	}
	probs := make(map[string]float64, len(nb.classes))
	for c, name := range nb.classes {
		probs[name] = joint[c] / sum
	}
	return probs, nil
}

// Classes returns the trained labels in sorted order.
func (nb *NaiveBayes) Classes() []string {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return append([]string(nil), nb.classes...)
}

// features returns the word n-grams of doc, from unigrams up to MaxNGram.
func (nb *NaiveBayes) features(doc string) []string {
	tokens := textutils.Tokens(doc)
	if len(tokens) == 0 {
		return nil
	}

	maxN := nb.MaxNGram
	if maxN < 1 {
		maxN = 1
	}

	out := make([]string, 0, len(tokens)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// tfidf weighs term counts by idf and scales the vector to unit length.
// Terms without an idf are dropped.
func tfidf(terms []string, idf map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(terms))
	for _, t := range terms {
		if w, ok := idf[t]; ok {
			weights[t] += w
		}
	}

	var norm float64
	for _, w := range weights {
		norm += w * w
	}
	if norm == 0 {
		return weights
	}
	norm = math.Sqrt(norm)
	for t := range weights {
		weights[t] /= norm
	}
	return weights
}
