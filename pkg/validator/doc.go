// Package validator provides the rule primitives the form engine is built on:
// a Rule pairs a boolean Check with translation-friendly error metadata, and
// ValidationErrors collects failures in the order they were produced.
//
// Every constructor returns a Rule whose TranslationKey is the rule name
// (required, minlength, maxlength, email, number, date) and whose
// TranslationValues hold the placeholders a message template may use
// (field, min, max, format). The English Message on each error is only a
// fallback; hosts normally render the key through a catalogue.
//
// Type rules (email, number, date and anything built with Matches) pass on an
// empty value. Presence is checked by RequiredString alone, and length rules
// apply regardless of presence.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.MinLenString("name", name, 3),
//	    validator.RequiredString("name", name),
//	    validator.ValidEmail("email", email),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, msg := range verrs.Get("name") {
//	        // ...
//	    }
//	}
//
// The package is stateless and safe for concurrent use.
package validator
