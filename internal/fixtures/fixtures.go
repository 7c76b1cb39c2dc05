// Package fixtures provides the sample datasets used across package tests.
package fixtures

import (
	_ "embed"

	"github.com/kittclouds/nlgkit/pkg/frame"
)

//go:embed actors.csv
var actorsCSV string

// ActorsCSV is the raw text of the actors dataset.
func ActorsCSV() string {
	return actorsCSV
}

// Actors returns a fresh copy of the actors dataset: category, name, rating
// and votes of nine film stars.
func Actors() *frame.Frame {
	df, err := frame.ReadCSVString(actorsCSV)
	if err != nil {
		panic(err)
	}
	return df
}

// InvertedActors is the actors subset with every rating replaced by
// 1 - rating, so the top rated actor becomes the bottom one.
func InvertedActors() *frame.Frame {
	df, err := Actors().Filter(frame.Args{"category": {"Actors"}})
	if err != nil {
		panic(err)
	}
	rating, err := df.Col("rating")
	if err != nil {
		panic(err)
	}
	inverted := rating.Map(func(v any) any {
		f, _ := frame.ToFloat(v)
		return 1 - f
	})
	df, err = df.WithColumn(inverted)
	if err != nil {
		panic(err)
	}
	return df
}
