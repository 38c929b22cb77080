package githost

import (
	"fmt"
	"strings"
)

// licenseText is the fixed LICENSE written on round 1 and never touched
// afterwards.
const licenseText = `MIT License

Copyright (c) 2024 Pagesmith

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

// readmeContent renders the README committed alongside the artifact. It is
// regenerated on every round from the current brief.
func readmeContent(owner, repoName, brief string) string {
	return fmt.Sprintf(`# %s

## Overview

This project was automatically generated based on the following brief:

> %s

## Description

This is a web application that implements the requirements specified in the project brief. The application is built using modern web technologies and follows best practices for web development.

## Setup and Usage

This is a static web application that can be run directly in any modern web browser.

### Local Development

1. Clone this repository:
   `+"```bash"+`
   git clone https://github.com/%s/%s.git
   cd %s
   `+"```"+`

2. Open `+"`index.html`"+` in your web browser.

### Live Demo

The application is automatically deployed to GitHub Pages and can be accessed at:
https://%s.github.io/%s/

## Code Structure

- `+"`index.html`"+` - Main application file containing HTML, CSS, and JavaScript
- `+"`README.md`"+` - This documentation file
- `+"`LICENSE`"+` - MIT License file

## License

This project is licensed under the MIT License - see the [LICENSE](LICENSE) file for details.

## Auto-Generated

This project was automatically generated by pagesmith.
`, titleFromRepoName(repoName), brief, owner, repoName, repoName, owner, repoName)
}

// titleFromRepoName turns a repository slug back into a display title:
// hyphens become spaces and each word is capitalized.
func titleFromRepoName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
