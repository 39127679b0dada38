package ui

import (
	"reflect"
	"testing"
)

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Shape", "Point", "Label", "Polygon"}

	tests := []struct {
		name   string
		target string
		opts   *FuzzyMatchOptions
		want   []string
	}{
		{"typo", "Shap", nil, []string{"Shape"}},
		{"case insensitive", "point", nil, []string{"Point"}},
		{"case sensitive", "POINT", &FuzzyMatchOptions{CaseSensitive: true}, []string{}},
		{"nothing close", "Registry", nil, []string{}},
		{"nearest first", "Poin", &FuzzyMatchOptions{MaxDistance: 4}, []string{"Point", "Polygon"}},
		{"limited", "Pxxxx", &FuzzyMatchOptions{MaxDistance: 10, MaxSuggestions: 2}, []string{"Point", "Shape"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSimilar(tt.target, candidates, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindSimilar(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Shape", "Shape", 0},
		{"größe", "grösse", 2},
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
