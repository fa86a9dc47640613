package steps

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

func (fc *FeatureContext) iCreateAFieldTitled(kind, title string) error {
	resp, err := fc.apiDriver.CreateField(fc.formID, kind, title, false)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) aFieldExistsTitled(kind, title string) error {
	return fc.createFieldFixture(kind, title, false)
}

func (fc *FeatureContext) aRequiredFieldExistsTitled(kind, title string) error {
	return fc.createFieldFixture(kind, title, true)
}

func (fc *FeatureContext) createFieldFixture(kind, title string, required bool) error {
	resp, err := fc.apiDriver.CreateField(fc.formID, kind, title, required)
	fc.require.NoError(err)
	fc.require.Equal(http.StatusCreated, resp.StatusCode)

	var data map[string]any
	err = fc.decodeBody(resp.Body, &data)
	fc.require.NoError(err)

	// The first field of a scenario becomes "the field"; later ones serve as
	// condition fields for display rules.
	if fc.fieldID == "" {
		fc.fieldID = data["id"].(string)
		fc.fieldName = data["name"].(string)
	} else {
		fc.conditionFieldID = data["id"].(string)
	}
	return nil
}

func (fc *FeatureContext) aLegacyFieldExistsWithSettings(settings *godog.DocString) error {
	requestBody := fmt.Sprintf(`{"kind": "text", "legacy_settings": %s}`, settings.Content)
	resp, err := fc.apiDriver.CreateFieldWithJSON(fc.formID, requestBody)
	fc.require.NoError(err)
	fc.require.Equal(http.StatusCreated, resp.StatusCode)

	var data map[string]any
	err = fc.decodeBody(resp.Body, &data)
	fc.require.NoError(err)
	fc.fieldID = data["id"].(string)
	return nil
}

func (fc *FeatureContext) theResponseShouldContainTheFieldDetails() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.NotEmpty(data["id"])
	fc.fieldID = data["id"].(string)
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theFieldNameShouldBeDerivedFromItsKind() error {
	fc.require.NotNil(fc.responseData)
	kind := fc.responseData["kind"].(string)
	name := fc.responseData["name"].(string)
	fc.require.True(strings.HasPrefix(name, kind+"-"), fmt.Sprintf("name %s does not start with %s-", name, kind))
	return nil
}

func (fc *FeatureContext) iUpdateTheFieldWithANewTitle(newTitle string) error {
	resp, err := fc.apiDriver.UpdateField(fc.fieldID, newTitle)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theResponseShouldContainTheFieldWithTitle(title string) error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(title, data["title"])
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theFieldVersionShouldBe(version int) error {
	fc.require.NotNil(fc.responseData)
	fc.require.Equal(float64(version), fc.responseData["version"])
	return nil
}

func (fc *FeatureContext) iListTheDraftFields() error {
	resp, err := fc.apiDriver.ListFields(fc.formID, "draft")
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iListTheLiveFields() error {
	resp, err := fc.apiDriver.ListFields(fc.formID, "live")
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theListShouldContainTheFieldTitled(title string) error {
	list := fc.decodeListResponse(fc.response)

	found := false
	for _, field := range list {
		if field["title"] == title {
			found = true
			break
		}
	}
	fc.require.True(found, fmt.Sprintf("field titled %s not found in list", title))
	return nil
}

func (fc *FeatureContext) theListShouldBeEmpty() error {
	list := fc.decodeListResponse(fc.response)
	fc.require.Empty(list)
	return nil
}

func (fc *FeatureContext) iDeleteTheField() error {
	resp, err := fc.apiDriver.DeleteField(fc.fieldID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iGetTheFieldByItsID() error {
	resp, err := fc.apiDriver.GetField(fc.fieldID, "")
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iTryToGetTheFieldByItsID() error {
	return fc.iGetTheFieldByItsID()
}
