// Package classifier provides the sketch classification interface and
// the category label list its output vector is aligned with.
package classifier

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Classifier scores a preprocessed sketch tensor against the category
// list. The returned vector is index-aligned with the loaded categories.
type Classifier interface {
	// Predict runs inference on a single-channel square tensor and
	// returns one probability per category.
	Predict(tensor []float32) ([]float32, error)

	// Close releases any resources held by the classifier.
	Close() error
}

// DefaultCategories is the built-in label list used when no category
// source is available. Order matters: it must match the model's output.
var DefaultCategories = []string{
	"apple",
	"banana",
	"book",
	"car",
	"cat",
	"circle",
	"cloud",
	"cup",
	"fish",
	"flower",
	"house",
	"moon",
	"mountain",
	"pizza",
	"smiley face",
	"square",
	"star",
	"sun",
	"tree",
	"triangle",
	"umbrella",
}

// LoadCategories reads one label per line from path, skipping blanks.
// On any error the built-in default list is returned along with the
// error so callers can degrade without special-casing.
func LoadCategories(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultCategories, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		label := strings.TrimSpace(scanner.Text())
		if label != "" {
			labels = append(labels, label)
		}
	}
	if err := scanner.Err(); err != nil {
		return DefaultCategories, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return DefaultCategories, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}
