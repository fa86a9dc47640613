package steps

func (fc *FeatureContext) iMigrateTheField() error {
	resp, err := fc.apiDriver.MigrateField(fc.fieldID)
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) iRunAMigrationSweep() error {
	resp, err := fc.apiDriver.MigrateAll()
	fc.require.NoError(err)
	fc.response = resp
	return nil
}

func (fc *FeatureContext) theFieldShouldBeMigrated() error {
	resp, err := fc.apiDriver.GetField(fc.fieldID, "draft")
	fc.require.NoError(err)

	var data map[string]any
	err = fc.decodeBody(resp.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(true, data["migrated"])
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theMigrationReportShouldCountMigrated(migrated int) error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)
	fc.require.Equal(float64(migrated), data["migrated"])
	return nil
}
