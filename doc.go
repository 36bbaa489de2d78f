// Package formrules validates form fields against declarative rules and
// renders localized error messages.
//
// A host records field values as they change and runs a validation pass on
// submit:
//
//	rs := formrules.NewRuleSet().
//		Field("name", formrules.MinLength(3), formrules.MaxLength(7), formrules.Required()).
//		Field("email", formrules.Email())
//
//	engine, err := formrules.New(
//		formrules.WithRuleSet(rs),
//		formrules.WithDeviceLocale("fr-FR"),
//	)
//	if err != nil {
//		return err
//	}
//
//	engine.RecordValue("name", "na")
//	if !engine.Validate() {
//		fmt.Println(engine.ErrorMessages())
//	}
//
// Built-in rules are required, minlength, maxlength, email, number and date.
// The last three live in a predicate registry that WithRules extends or
// overrides. Every constraint is evaluated on its own, so an empty value
// declared with both minlength and required yields both messages. Type rules
// pass on an empty value.
//
// Messages come from the English and French tables embedded under locales/,
// layered under templates supplied with WithMessages. Templates use the
// %{field}, %{min}, %{max} and %{format} placeholders. A device locale
// without a table silently falls back to English.
//
// Rule sets can also be read from YAML or JSON with ParseRuleSet, or from
// the compact "minlength:3;required" form with ParseConstraints.
package formrules
