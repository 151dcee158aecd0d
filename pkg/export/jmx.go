package export

import (
	"fmt"
	"os"
	"strings"
)

// ValidateJMX checks the mandated structural shape of a load-test plan
// document: an XML declaration followed by a jmeterTestPlan root element.
// This is the only export format with a mandated structure.
func ValidateJMX(plan string) error {
	trimmed := strings.TrimSpace(plan)
	if !strings.HasPrefix(trimmed, "<?xml") {
		return fmt.Errorf("test plan must begin with an XML declaration")
	}
	if !strings.Contains(trimmed, "<jmeterTestPlan") {
		return fmt.Errorf("test plan must contain a jmeterTestPlan root element")
	}
	return nil
}

// WriteJMX validates and writes a plan document to path.
func WriteJMX(path, plan string) error {
	if err := ValidateJMX(plan); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(plan), 0o644); err != nil {
		return fmt.Errorf("write JMX plan: %w", err)
	}
	return nil
}
