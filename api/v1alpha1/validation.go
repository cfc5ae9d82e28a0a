package v1alpha1

import (
	"regexp"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var identifierPattern = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// ValidateAssemblySettings checks defaulted settings.
func ValidateAssemblySettings(s *AssemblySettings) field.ErrorList {
	var allErrs field.ErrorList

	pkgsPath := field.NewPath("queryBasePackages")
	seen := sets.New[string]()
	for i, pkg := range s.QueryBasePackages {
		switch {
		case pkg == "":
			allErrs = append(allErrs, field.Required(pkgsPath.Index(i), "package path must not be empty"))
		case seen.Has(pkg):
			allErrs = append(allErrs, field.Duplicate(pkgsPath.Index(i), pkg))
		default:
			seen.Insert(pkg)
		}
	}

	relayPath := field.NewPath("relay")
	if s.Relay.Enabled && !identifierPattern.MatchString(s.Relay.MutationWrapper) {
		allErrs = append(allErrs, field.Invalid(relayPath.Child("mutationWrapper"), s.Relay.MutationWrapper,
			"must be a valid argument name"))
	}
	if !s.Relay.Enabled && s.Relay.MutationWrapperDescription != "" {
		allErrs = append(allErrs, field.Forbidden(relayPath.Child("mutationWrapperDescription"),
			"may only be set when relay is enabled"))
	}

	return allErrs
}
