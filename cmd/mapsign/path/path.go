package path

import (
	"github.com/fatih/color"
	"github.com/kcmvp/mapq/latlng"
	"github.com/kcmvp/mapq/polyline"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// PathCmd groups the polyline codec utilities.
var PathCmd = &cobra.Command{
	Use:   "path",
	Short: "Encode and decode polyline path strings.",
}

var encodeCmd = &cobra.Command{
	Use:   "encode <lat,lng> [lat,lng...]",
	Short: "Encode a sequence of coordinates as a polyline string.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points := make([]latlng.LatLng, len(args))
		for i, arg := range args {
			ll, err := latlng.Convert(arg)
			if err != nil {
				return err
			}
			points[i] = ll
		}
		color.Green("%s", polyline.Encode(points))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <polyline>",
	Short: "Decode a polyline string into one coordinate per line.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := polyline.Decode(args[0])
		if err != nil {
			return err
		}
		lo.ForEach(points, func(p latlng.LatLng, _ int) {
			color.Green("%s", p.String())
		})
		return nil
	},
}

func init() {
	PathCmd.AddCommand(encodeCmd)
	PathCmd.AddCommand(decodeCmd)
}
