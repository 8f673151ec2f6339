package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pc-recommender/domain"
	"pc-recommender/service"
)

func newRecommendCmd(c *cliContext) *cobra.Command {
	var (
		purpose  string
		minPrice float64
		maxPrice float64
		level    string
		brands   []string
		features []string
		add      int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask for PC builds that fit your requirements",
		Example: `  pcrec recommend --purpose gaming --min 800 --max 1500 --level high
  pcrec recommend --purpose office --min 300 --max 600 --level basic --brand AMD --add 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var budget *domain.Budget
			if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
				budget = &domain.Budget{}
				if cmd.Flags().Changed("min") {
					budget.Min = &minPrice
				}
				if cmd.Flags().Changed("max") {
					budget.Max = &maxPrice
				}
			}
			req := service.NewRequirements(
				domain.Purpose(purpose),
				budget,
				domain.PerformanceLevel(level),
				brands,
				features,
			)

			ctx := cmd.Context()
			resp, err := c.app.Recommendations.GetRecommendations(ctx, req)
			if err != nil {
				c.app.Analytics.TrackError(ctx, err, "recommend")
				return err
			}
			c.app.Analytics.TrackPageView(ctx, "recommendations")

			printConfigurations(c.out, resp.Recommendations)

			if add > 0 {
				picked, err := c.app.Recommendations.PickFromLast(add)
				if err != nil {
					return err
				}
				if err := checkResult(c.app.Comparison.Add(picked)); err != nil {
					return err
				}
				c.app.Analytics.TrackComparisonAdded(ctx, picked.ConfigurationID)
				printSuccess(c.out, fmt.Sprintf("Added %s to comparison", picked.ConfigurationID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", fmt.Sprintf("what the PC is for %v", domain.Purposes))
	cmd.Flags().Float64Var(&minPrice, "min", 0, "minimum budget")
	cmd.Flags().Float64Var(&maxPrice, "max", 0, "maximum budget")
	cmd.Flags().StringVar(&level, "level", "", fmt.Sprintf("performance level %v", domain.PerformanceLevels))
	cmd.Flags().StringArrayVar(&brands, "brand", nil, "preferred brand (repeatable)")
	cmd.Flags().StringArrayVar(&features, "feature", nil, "must-have feature (repeatable)")
	cmd.Flags().IntVar(&add, "add", 0, "add the build at this position to the comparison")
	return cmd
}

func newRecommendationCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommendation",
		Short: "Inspect stored recommendations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID...",
		Short: "Show one or more recommendations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := c.app.Recommendations.GetManyRecommendationDetails(cmd.Context(), args)
			if err != nil {
				return err
			}
			for i, d := range details {
				c.app.Analytics.TrackRecommendationViewed(cmd.Context(), args[i])
				if err := printJSON(c.out, d); err != nil {
					return err
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "last",
		Short: "Show the builds from the last recommend call",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			saved, ok, err := c.app.Recommendations.LastRecommendations()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(c.out, mutedStyle.Render("No recommendations yet. Run pcrec recommend first."))
				return nil
			}
			printConfigurations(c.out, saved.Response.Recommendations)
			return nil
		},
	})
	return cmd
}

func newFeedbackCmd(c *cliContext) *cobra.Command {
	var (
		helpful   bool
		rating    int
		comments  string
		purchased string
	)

	cmd := &cobra.Command{
		Use:   "feedback RECOMMENDATION_ID",
		Short: "Tell the service how useful a recommendation was",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fb := domain.Feedback{
				RecommendationID:  args[0],
				Helpful:           helpful,
				Comments:          comments,
				PurchasedConfigID: purchased,
			}
			if cmd.Flags().Changed("rating") {
				fb.Rating = &rating
			}

			if _, err := c.app.Recommendations.SubmitFeedback(cmd.Context(), fb); err != nil {
				return err
			}
			c.app.Analytics.TrackFeedbackSubmitted(cmd.Context(), fb)
			printSuccess(c.out, "Thanks for your feedback")
			return nil
		},
	}

	cmd.Flags().BoolVar(&helpful, "helpful", false, "the recommendation was helpful")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&comments, "comments", "", "free-form comments")
	cmd.Flags().StringVar(&purchased, "purchased", "", "configuration id you bought")
	return cmd
}

func newComponentsCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "Browse PC components",
	}

	var (
		filter   domain.ComponentFilter
		minPrice float64
		maxPrice float64
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min-price") {
				filter.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				filter.MaxPrice = &maxPrice
			}
			out, err := c.app.Recommendations.GetComponents(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(c.out, out)
		},
	}
	list.Flags().StringVar(&filter.ComponentType, "type", "", "component type, e.g. cpu or gpu")
	list.Flags().StringVar(&filter.Brand, "brand", "", "brand")
	list.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	list.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	list.Flags().IntVar(&filter.Page, "page", 0, "page number")
	list.Flags().IntVar(&filter.PageSize, "page-size", 0, "results per page")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.app.Recommendations.GetComponentDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(c.out, out)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
