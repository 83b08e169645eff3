package paramutils

type MockFlagSet struct {
	ValueMap map[string]interface{}
}

func (fs *MockFlagSet) GetStringOrDefault(flag, d string) string {
	if val, ok := fs.ValueMap[flag]; ok {
		return val.(string)
	}

	return d
}

func (fs *MockFlagSet) GetBoolOrDefault(flag string, d bool) bool {
	if val, ok := fs.ValueMap[flag]; ok {
		return val.(bool)
	}

	return d
}

func (fs *MockFlagSet) GetIntOrDefault(flag string, d int) int {
	if val, ok := fs.ValueMap[flag]; ok {
		return val.(int)
	}

	return d
}
