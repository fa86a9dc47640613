package steps

import (
	"fmt"
	"strings"
)

func (fc *FeatureContext) iValidateASubmissionWithTheFieldSetTo(value string) error {
	resp, err := fc.apiDriver.ValidateSubmission(fc.formID, map[string]any{fc.fieldName: value})
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iValidateAnEmptySubmission() error {
	resp, err := fc.apiDriver.ValidateSubmission(fc.formID, map[string]any{})
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theSubmissionShouldBeValid() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(true, data["valid"])
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theSubmissionShouldBeInvalid() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(false, data["valid"])
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theValidationErrorsShouldMention(fragment string) error {
	fc.require.NotNil(fc.responseData)
	errorsValue, ok := fc.responseData["errors"].([]any)
	fc.require.True(ok, "errors missing from validation outcome")

	found := false
	for _, entry := range errorsValue {
		errorData := entry.(map[string]any)
		if strings.Contains(errorData["message"].(string), fragment) {
			found = true
			break
		}
	}
	fc.require.True(found, fmt.Sprintf("no validation error mentions %q", fragment))
	return nil
}
