package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/components"
	"github.com/ams-law/goldsite/systems"
)

// drawSparks renders live sparks as small spheres. Must run inside Mode3D.
func drawSparks(scene *systems.SceneElements) {
	scene.EachSpark(func(tf *components.Transform, tint *components.Tint, spark *components.Spark) {
		// Shrink as the spark fades
		lifeRatio := float32(spark.Life) / float32(spark.MaxLife)
		size := spark.Size * lifeRatio
		if size < 0.01 {
			size = 0.01
		}
		rl.DrawSphereEx(vec(tf.Pos), size, 4, 4, rgba(tint.Color))
	})
}
