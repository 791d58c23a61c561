// Package main provides the entry point for the PhishLens CLI.
//
// PhishLens sends an email to a language model and shows, character by
// character, which parts of the text made it look like phishing.
//
// Usage:
//
//	phishlens scan email.txt
//	phishlens scan --example adv
//	cat email.txt | phishlens scan
//
// See --help for all available options.
package main

func main() {
	Execute()
}
