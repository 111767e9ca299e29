// Package profile loads grid engine profiles from HCL.
//
// A profile tells gridblast how to talk to the local scheduler: how to
// submit an array job, how to poll it, which environment variable
// carries the array task index, and how to invoke the sequence
// splitter. A minimal Slurm profile looks like:
//
//	engine "slurm" {
//	  submit_command = "sbatch --parsable -A {project} -J {name} --array=1-{count} -o {logdir}/%A_%a.out {script}"
//	  poll_command   = "squeue -h -j {job}"
//	  task_index_var = "SLURM_ARRAY_TASK_ID"
//	  poll_interval  = "1m"
//	}
//
//	split {
//	  command    = "split_multifasta --in {input} --outdir {outdir} --seqs_per_file {size}"
//	  chunk_size = defaults.chunk_size
//	}
//
// The poll command's exit status is the completion signal: zero means
// the job is still known to the scheduler, non-zero means it has left
// the queue. When no profile file is given, DefaultSGE applies.
package profile
