package domain

const (
	HWP_NAMESPACE = "hwp"
)

// ClassDecl describes a generated-code class and the methods the wiring may
// call on it.
type ClassDecl struct {
	Name    string
	Methods []string
}

func (c ClassDecl) HasMethod(method string) bool {
	for _, m := range c.Methods {
		if m == method {
			return true
		}
	}
	return false
}

func Qualified(namespace, name string) string {
	return namespace + "::" + name
}

var (
	POOL_HEATER_CLASS          = Qualified(HWP_NAMESPACE, "PoolHeater")
	ACTIVE_MODE_SWITCH_CLASS   = Qualified(HWP_NAMESPACE, "ActiveModeSwitch")
	UPDATE_STATUS_SWITCH_CLASS = Qualified(HWP_NAMESPACE, "UpdateStatusSwitch")
	GENERATE_CODE_BUTTON_CLASS = Qualified(HWP_NAMESPACE, "GenerateCodeButton")
)
