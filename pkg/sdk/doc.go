// Package trajplan plans straight-line surgical trajectories in-process.
//
// Given candidate entry points on the scalp, candidate target points and four
// labelled volumes (target structure, ventricles, vessels, cortex), the client
// keeps the trajectories that end inside the target, avoid both critical
// structures and cross the cortex close to perpendicular. It then picks, per entry,
// the one that stays farthest from the critical structures.
//
//	client, _ := trajplan.New(trajplan.WithWorkers(8))
//	res, err := client.Plan(ctx, trajplan.Request{
//	    Entries:    entries,
//	    Targets:    targets,
//	    Target:     hippocampus,
//	    Ventricles: ventricles,
//	    Vessels:    vessels,
//	    Cortex:     cortex,
//	})
//	for _, c := range res.Best {
//	    fmt.Println(c.Entry.ID, "->", c.Target.ID, c.Clearance)
//	}
//
// Volumes are built with NewVolume or DecodeVolume and point sets with
// NewPointSet or ReadFiducials. All coordinates are physical millimetres in one
// patient space.
package trajplan
