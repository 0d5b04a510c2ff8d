package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// DeploymentView is the rendered outcome of a deploy command
type DeploymentView struct {
	Chain         domain.ChainTarget `json:"chain" yaml:"chain"`
	Address       string             `json:"address" yaml:"address"`
	Success       bool               `json:"success" yaml:"success"`
	TransactionID string             `json:"transactionId,omitempty" yaml:"transactionId,omitempty"`
}

// NewDeploymentView converts a deployment result for rendering
func NewDeploymentView(result *domain.DeploymentResult) *DeploymentView {
	return &DeploymentView{
		Chain:         result.Chain,
		Address:       result.Address,
		Success:       result.Success,
		TransactionID: result.TransactionID,
	}
}

// DeploymentRenderer renders deployment results
type DeploymentRenderer struct {
	out    io.Writer
	format Format
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer, format Format) *DeploymentRenderer {
	return &DeploymentRenderer{out: out, format: format}
}

// Render writes the deployment outcome. A reverted deployment is still a
// result, only its status line differs.
func (r *DeploymentRenderer) Render(view *DeploymentView) error {
	if r.format.Structured() {
		env := Envelope{
			Success:   view.Success,
			Operation: "deploy",
			Chain:     string(view.Chain),
			Data:      view,
		}
		if !view.Success {
			env.Error = &ErrorBody{Kind: "reverted", Message: "deployment transaction reverted"}
		}
		return WriteStructured(r.out, r.format, env)
	}

	if view.Success {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed to %s", view.Chain.DisplayName())))
	} else {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("Deployment to %s reverted", view.Chain.DisplayName())))
	}
	fmt.Fprintln(r.out)

	address := view.Address
	if address == "" {
		address = color.New(color.Faint).Sprint("none")
	} else {
		address = color.New(color.FgGreen, color.Bold).Sprint(address)
	}
	fmt.Fprintf(r.out, "  %s %s\n", label("Address"), address)
	if view.TransactionID != "" {
		fmt.Fprintf(r.out, "  %s %s\n", label("Transaction"), view.TransactionID)
	}
	return nil
}

var _ Renderer[*DeploymentView] = (*DeploymentRenderer)(nil)
