package services

import (
	"context"

	integration_models "serena-mcp/internal/models/integrations"
)

// deployFly accepts app_name or app, and image_tag or image.
func (d *Dispatcher) deployFly(ctx context.Context, params Params) (interface{}, error) {
	app := params.FirstString("app_name", "app")
	if app == "" {
		return nil, missingParam("app_name")
	}
	image := params.FirstString("image_tag", "image")
	if image == "" {
		return nil, missingParam("image_tag")
	}

	resp, err := d.fly.DeployApp(ctx, integration_models.DeployRequest{
		AppName:  app,
		Image:    image,
		Strategy: params.String("strategy"),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
