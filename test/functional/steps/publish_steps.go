package steps

import (
	"fmt"
	"net/http"
)

func (fc *FeatureContext) anOptionExistsLabelled(label string) error {
	resp, err := fc.apiDriver.CreateOption(fc.fieldID, label, false)
	fc.require.NoError(err)
	fc.require.Equal(http.StatusCreated, resp.StatusCode)
	return nil
}

func (fc *FeatureContext) iCreateAnOptionLabelled(label string) error {
	resp, err := fc.apiDriver.CreateOption(fc.fieldID, label, false)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iListTheLiveOptions() error {
	resp, err := fc.apiDriver.ListOptions(fc.fieldID, "live")
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theListShouldContainTheOptionLabelled(label string) error {
	list := fc.decodeListResponse(fc.response)

	found := false
	for _, option := range list {
		if option["label"] == label {
			found = true
			break
		}
	}
	fc.require.True(found, fmt.Sprintf("option labelled %s not found in list", label))
	return nil
}

func (fc *FeatureContext) aDisplayRuleExistsWatchingTheOtherField(value string) error {
	resp, err := fc.apiDriver.CreateRule(fc.fieldID, fc.conditionFieldID, "equals", value)
	fc.require.NoError(err)
	fc.require.Equal(http.StatusCreated, resp.StatusCode)
	return nil
}

func (fc *FeatureContext) iListTheLiveRules() error {
	resp, err := fc.apiDriver.ListRules(fc.fieldID, "live")
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theListShouldContainOurDisplayRule() error {
	list := fc.decodeListResponse(fc.response)

	found := false
	for _, rule := range list {
		if rule["condition_field_id"] == fc.conditionFieldID {
			found = true
			break
		}
	}
	fc.require.True(found, "display rule not found in list")
	return nil
}

func (fc *FeatureContext) iPublishTheField() error {
	resp, err := fc.apiDriver.PublishField(fc.fieldID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iPublishTheConditionField() error {
	resp, err := fc.apiDriver.PublishField(fc.conditionFieldID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iUnpublishTheField() error {
	resp, err := fc.apiDriver.UnpublishField(fc.fieldID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iGetTheLiveFieldByItsID() error {
	resp, err := fc.apiDriver.GetField(fc.fieldID, "live")
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iTryToGetTheLiveFieldByItsID() error {
	return fc.iGetTheLiveFieldByItsID()
}

func (fc *FeatureContext) iCheckTheFieldStatus() error {
	resp, err := fc.apiDriver.GetFieldStatus(fc.fieldID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theFieldShouldBeMarkedAsModified() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(true, data["modified"])
	return nil
}

func (fc *FeatureContext) theFieldShouldNotBeMarkedAsModified() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(false, data["modified"])
	return nil
}

func (fc *FeatureContext) iDuplicateTheField() error {
	resp, err := fc.apiDriver.DuplicateField(fc.fieldID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theResponseShouldContainADraftCopyOfTheField() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.NotEmpty(data["id"])
	fc.require.NotEqual(fc.fieldID, data["id"])
	fc.require.Equal("draft", data["stage"])
	fc.require.Equal(float64(0), data["version"])
	fc.duplicateFieldID = data["id"].(string)
	return nil
}
