/*
Package wordcloud lays out the words of a text on a canvas, sized by their
frequency, and renders them into an image. The canvas can be a plain rectangle
or the silhouette of a mask image.

The placement is greedy: the words are processed heaviest first and each one
is put at a random free position, found through a summed-area table of the
occupied pixels. A word which does not fit is retried with a smaller font,
then in the other orientation.

The package provides a command line interface. To check the supported commands type:

	$ wordcloud --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"strings"

		"github.com/esimov/wordcloud"
	)

	func main() {
		p := wordcloud.DefaultProcessor()
		p.Width, p.Height = 800, 400

		if err := p.Process(strings.NewReader(text), out); err != nil {
			fmt.Printf("Error generating the word cloud: %s", err.Error())
		}
	}
*/
package wordcloud
