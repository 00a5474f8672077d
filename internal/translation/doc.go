// Package translation fills in missing target words and extra-language
// labels of a theme using the OpenAI API. It includes a translation cache
// for batch operations.
package translation
